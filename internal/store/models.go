package store

import (
	"time"

	"gorm.io/datatypes"
)

// GameModel is the games table. Child tables cascade on delete.
type GameModel struct {
	ID              string  `gorm:"primaryKey;size:64"`
	RawgID          int     `gorm:"uniqueIndex;not null"`
	Slug            string  `gorm:"size:255;uniqueIndex;not null"`
	Name            string  `gorm:"size:255;not null"`
	Description     *string `gorm:"type:text"`
	Metacritic      *int
	Rating          *float64
	ReleaseDate     *datatypes.Date
	Developer       *string `gorm:"size:255"`
	Publisher       *string `gorm:"size:255"`
	BackgroundImage *string `gorm:"size:512"`
	Website         *string `gorm:"size:512"`
	Playtime        *int
	AgeRating       *string `gorm:"size:64"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Platforms   []PlatformModel   `gorm:"foreignKey:GameID;references:ID;constraint:OnDelete:CASCADE"`
	Genres      []GenreModel      `gorm:"foreignKey:GameID;references:ID;constraint:OnDelete:CASCADE"`
	Tags        []TagModel        `gorm:"foreignKey:GameID;references:ID;constraint:OnDelete:CASCADE"`
	Screenshots []ScreenshotModel `gorm:"foreignKey:GameID;references:ID;constraint:OnDelete:CASCADE"`
}

func (GameModel) TableName() string { return "games" }

type PlatformModel struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	GameID string `gorm:"size:64;index;not null"`
	Name   string `gorm:"size:128;not null"`
}

func (PlatformModel) TableName() string { return "game_platforms" }

type GenreModel struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	GameID string `gorm:"size:64;index;not null"`
	Name   string `gorm:"size:128;not null"`
}

func (GenreModel) TableName() string { return "game_genres" }

type TagModel struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	GameID string `gorm:"size:64;index;not null"`
	Name   string `gorm:"size:128;not null"`
}

func (TagModel) TableName() string { return "game_tags" }

type ScreenshotModel struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	GameID string `gorm:"size:64;index;not null"`
	URL    string `gorm:"size:512;not null"`
}

func (ScreenshotModel) TableName() string { return "game_screenshots" }

// allModels lists every table in migration order.
func allModels() []any {
	return []any{&GameModel{}, &PlatformModel{}, &GenreModel{}, &TagModel{}, &ScreenshotModel{}}
}
