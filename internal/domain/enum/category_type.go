package enum

// CategoryType says whether a category groups products or services
type CategoryType string

const (
	CategoryTypeProduct CategoryType = "product"
	CategoryTypeService CategoryType = "service"
)

var categoryTypes = []CategoryType{CategoryTypeProduct, CategoryTypeService}

func (t CategoryType) String() string {
	return string(t)
}

func (t CategoryType) IsValid() bool {
	_, ok := match(categoryTypes, string(t))
	return ok
}

func ParseCategoryType(s string) (CategoryType, bool) {
	return match(categoryTypes, s)
}

func (t *CategoryType) UnmarshalJSON(data []byte) error {
	return unmarshal(data, categoryTypes, "category type", t)
}
