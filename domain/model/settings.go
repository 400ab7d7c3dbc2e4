package model

import "time"

const (
	DefaultMainColor         = "#667eea"
	DefaultPhotoGalleryCount = 8
)

type ScriptNos struct {
	JS  string `json:"js,omitempty" bson:"js,omitempty"`
	CSS string `json:"css,omitempty" bson:"css,omitempty"`
}

// MallSettings holds the widget configuration of one installed mall.
type MallSettings struct {
	MallID            string     `json:"mall_id" bson:"_id"`
	EnableWidget      bool       `json:"enableWidget" bson:"enable_widget"`
	ShowStatistics    bool       `json:"showStatistics" bson:"show_statistics"`
	ShowPhotoGallery  bool       `json:"showPhotoGallery" bson:"show_photo_gallery"`
	MainColor         string     `json:"mainColor" bson:"main_color"`
	PhotoGalleryCount int        `json:"photoGalleryCount" bson:"photo_gallery_count"`
	ReviewBoardNo     int        `json:"review_board_no,omitempty" bson:"review_board_no,omitempty"`
	ScriptNos         ScriptNos  `json:"script_nos" bson:"script_nos"`
	Version           string     `json:"version,omitempty" bson:"version,omitempty"`
	InstalledAt       *time.Time `json:"installed_at,omitempty" bson:"installed_at,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

func NewDefaultSettings(mallID string) *MallSettings {
	return &MallSettings{
		MallID:            mallID,
		EnableWidget:      true,
		ShowStatistics:    true,
		ShowPhotoGallery:  true,
		MainColor:         DefaultMainColor,
		PhotoGalleryCount: DefaultPhotoGalleryCount,
	}
}
