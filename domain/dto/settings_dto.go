package dto

// SettingsUpdateRequest is a partial update; nil fields are left unchanged.
type SettingsUpdateRequest struct {
	EnableWidget      *bool   `json:"enableWidget"`
	ShowStatistics    *bool   `json:"showStatistics"`
	ShowPhotoGallery  *bool   `json:"showPhotoGallery"`
	MainColor         *string `json:"mainColor" binding:"omitempty,hexcolor,len=7"`
	PhotoGalleryCount *int    `json:"photoGalleryCount" binding:"omitempty,min=4,max=20"`
}
