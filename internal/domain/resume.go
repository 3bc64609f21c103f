package domain

import "time"

// Resume is an uploaded PDF and its metadata. Rows are never updated after insert.
type Resume struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	FileName   string     `gorm:"not null" json:"fileName"`
	FileURL    string     `gorm:"column:file_url;not null" json:"fileUrl"`
	UploadedAt time.Time  `gorm:"index" json:"uploadedAt"`
	PageCount  int        `json:"pageCount"`
	Pages      []PageSize `gorm:"column:pages_json;type:text;serializer:json" json:"pages,omitempty"`
}

func (Resume) TableName() string {
	return "documents"
}

// PageSize is the unzoomed size of one page in PDF points, which is also the
// pixel size the viewer renders at scale 1.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Page returns the size of the 1-indexed page, or false when unknown.
func (r *Resume) Page(number int) (PageSize, bool) {
	if number < 1 || number > len(r.Pages) {
		return PageSize{}, false
	}
	return r.Pages[number-1], true
}
