package model

import (
	"time"
)

type Recipe struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Image       string    `gorm:"not null" json:"image"` // uploaded image URL
	Text        string    `gorm:"type:text" json:"text"`
	CookingTime int       `gorm:"not null" json:"cooking_time"` // minutes, >= 1
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Membership flags relative to the requesting user, selected by the
	// repository as EXISTS subqueries. Never persisted.
	IsFavorited      bool `gorm:"->;-:migration" json:"-"`
	IsInShoppingCart bool `gorm:"->;-:migration" json:"-"`

	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients,omitempty"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient links a recipe to an ingredient with a quantity.
// Amounts are integers so shopping-list sums stay exact.
type RecipeIngredient struct {
	RecipeID     uint `gorm:"primaryKey" json:"recipe_id"`
	IngredientID uint `gorm:"primaryKey" json:"ingredient_id"`
	Amount       int  `gorm:"not null" json:"amount"` // >= 1

	Recipe     Recipe     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
