package taxonomy

// Default returns the built-in service taxonomy.
func Default() Taxonomy {
	return Taxonomy{Categories: []Category{
		{
			Name:        "housing",
			Active:      true,
			Description: "Provides beds for various groups of people. Must make sure the user qualifies before finalizing. ",
			Subcategories: []Subcategory{
				{Name: "shelter for men", Description: "Ask if user is a man"},
				{Name: "shelter for women", Description: "Ask if user is a women"},
				{Name: "shelter for families", Description: "Ask if user has children"},
				{Name: "shelter and recovery for men with addictions", Description: "make sure they are men with addictions"},
				{Name: "shelter and recovery for women with addictions", Description: "make sure they are women with addictions"},
				{Name: "long term housing for teens", Description: "ask if they are between age 16-22."},
			},
		},
		{
			Name:        "food",
			Active:      true,
			Description: "only need to differentiate between cooked food and groceries",
			Subcategories: []Subcategory{
				{Name: "cooked food"},
				{Name: "groceries"},
			},
		},
		{
			Name:   "medical",
			Active: true,
			Subcategories: []Subcategory{
				{Name: "general"},
				{Name: "women medical"},
			},
		},
		{
			Name:   "hygiene",
			Active: true,
			Subcategories: []Subcategory{
				{Name: "showers"},
				{Name: "sanitation kits"},
			},
		},
		{
			Name:   "clothes",
			Active: true,
			Subcategories: []Subcategory{
				{Name: "men's clothes"},
				{Name: "women's clothes"},
				{Name: "children's clothes"},
				{Name: "winter clothes", Description: "like socks, jackets, pants general warming clothes."},
			},
		},
		{
			Name:   "jobsandtraining",
			Active: true,
			Subcategories: []Subcategory{
				{Name: "resume help"},
				{Name: "training"},
				{Name: "job applications"},
			},
		},
		{
			Name:   "otherservices",
			Active: true,
			Subcategories: []Subcategory{
				{Name: "Addiction"},
				{Name: "Bus Fare"},
				{Name: "Car Repair"},
				{Name: "Day Care"},
				{Name: "Diapers"},
				{Name: "Furniture"},
				{Name: "Hair Services"},
				{Name: "High School Diploma or Homework Help"},
				{Name: "I.D Cards or Social Security Cards"},
				{Name: "Legal"},
				{Name: "Mental Health"},
				{Name: "Phone"},
				{Name: "SNAP Benefits"},
				{Name: "Shower and Toiletries"},
				{Name: "Utilities"},
				{Name: "Veteran Assistance"},
				{Name: "Wash Clothes"},
			},
		},
	}}
}
