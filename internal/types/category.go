package types

import "fmt"

type ProductCategory string

const (
	CategoryClothing           ProductCategory = "clothing"
	CategoryElectronics        ProductCategory = "electronics"
	CategoryFoodBeverage       ProductCategory = "food_beverage"
	CategoryTravelServices     ProductCategory = "travel_services"
	CategoryFitnessEquipment   ProductCategory = "fitness_equipment"
	CategoryHomeGarden         ProductCategory = "home_garden"
	CategoryBeautyPersonalCare ProductCategory = "beauty_personal_care"
	CategoryBooksMedia         ProductCategory = "books_media"
	CategorySportsOutdoors     ProductCategory = "sports_outdoors"
)

type InterestCategory string

const (
	InterestFashion    InterestCategory = "fashion"
	InterestTechnology InterestCategory = "technology"
	InterestFood       InterestCategory = "food"
	InterestTravel     InterestCategory = "travel"
	InterestFitness    InterestCategory = "fitness"
	InterestHome       InterestCategory = "home"
	InterestBeauty     InterestCategory = "beauty"
	InterestBooks      InterestCategory = "books"
	InterestMusic      InterestCategory = "music"
	InterestSports     InterestCategory = "sports"
)

var productCategories = map[ProductCategory]struct{}{
	CategoryClothing:           {},
	CategoryElectronics:        {},
	CategoryFoodBeverage:       {},
	CategoryTravelServices:     {},
	CategoryFitnessEquipment:   {},
	CategoryHomeGarden:         {},
	CategoryBeautyPersonalCare: {},
	CategoryBooksMedia:         {},
	CategorySportsOutdoors:     {},
}

var interestCategories = map[InterestCategory]struct{}{
	InterestFashion:    {},
	InterestTechnology: {},
	InterestFood:       {},
	InterestTravel:     {},
	InterestFitness:    {},
	InterestHome:       {},
	InterestBeauty:     {},
	InterestBooks:      {},
	InterestMusic:      {},
	InterestSports:     {},
}

// purchaseToInterest is the fixed mapping between the product and interest
// category domains. Music has no product counterpart, so it is only ever
// populated from explicit interest submissions.
var purchaseToInterest = map[ProductCategory]InterestCategory{
	CategoryClothing:           InterestFashion,
	CategoryElectronics:        InterestTechnology,
	CategoryFoodBeverage:       InterestFood,
	CategoryTravelServices:     InterestTravel,
	CategoryFitnessEquipment:   InterestFitness,
	CategoryHomeGarden:         InterestHome,
	CategoryBeautyPersonalCare: InterestBeauty,
	CategoryBooksMedia:         InterestBooks,
	CategorySportsOutdoors:     InterestSports,
}

func ParseProductCategory(raw string) (ProductCategory, error) {
	c := ProductCategory(raw)
	if _, ok := productCategories[c]; !ok {
		return "", fmt.Errorf("unknown product category %q", raw)
	}
	return c, nil
}

func ParseInterestCategory(raw string) (InterestCategory, error) {
	c := InterestCategory(raw)
	if _, ok := interestCategories[c]; !ok {
		return "", fmt.Errorf("unknown interest category %q", raw)
	}
	return c, nil
}

func InterestCategoryForPurchase(c ProductCategory) (InterestCategory, bool) {
	ic, ok := purchaseToInterest[c]
	return ic, ok
}
