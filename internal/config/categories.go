package config

import "github.com/pairspend/pairspend/internal/model"

// DefaultCategories returns the built-in category definitions used when the
// configuration file defines none. Order matters: the keyword scorer breaks
// ties by declaration order.
func DefaultCategories() []model.Category {
	return []model.Category{
		{
			Key:         "food",
			Description: "Restaurants, cafes, takeout",
			Keywords: []string{
				"breakfast", "lunch", "dinner", "brunch", "coffee", "bagel",
				"burger", "pizza", "sushi", "takeout", "restaurant", "cafe",
				"snack", "dessert",
			},
		},
		{
			Key:         "groceries",
			Description: "Supermarkets and food shopping",
			Keywords: []string{
				"groceries", "grocery", "supermarket", "produce", "milk",
				"bread", "vegetables", "fruit", "meat",
			},
		},
		{
			Key:         "transport",
			Description: "Rides, fuel, parking, transit",
			Keywords: []string{
				"uber", "lyft", "taxi", "fuel", "gas", "parking", "toll",
				"bus", "train", "subway", "metro",
			},
		},
		{
			Key:         "entertainment",
			Description: "Streaming, movies, events",
			Keywords: []string{
				"movie", "cinema", "concert", "streaming", "subscription",
				"game", "tickets", "show",
			},
		},
		{
			Key:         "shopping",
			Description: "Retail and online purchases",
			Keywords: []string{
				"clothes", "clothing", "shoes", "electronics", "gift",
				"order", "amazon",
			},
		},
		{
			Key:         "home",
			Description: "Furniture, repairs, household",
			Keywords: []string{
				"furniture", "repair", "hardware", "paint", "appliance",
				"cleaning", "decor",
			},
		},
		{
			Key:         "utilities",
			Description: "Power, water, internet, phone",
			Keywords: []string{
				"electricity", "electric", "water", "internet", "phone",
				"wifi", "bill", "utility",
			},
		},
		{
			Key:         "health",
			Description: "Pharmacy, doctors, fitness",
			Keywords: []string{
				"pharmacy", "doctor", "dentist", "prescription", "gym",
				"fitness", "vitamins",
			},
		},
		{
			Key:         "travel",
			Description: "Flights, hotels, vacations",
			Keywords: []string{
				"flight", "hotel", "airbnb", "vacation", "luggage",
				"rental", "airfare",
			},
		},
	}
}
