package catalog

import (
	"strings"

	"github.com/mmcdole/shelf/internal/domain"
)

// MapVolumes converts catalog volumes to normalized book records
func MapVolumes(volumes []Volume) []domain.BookRecord {
	records := make([]domain.BookRecord, 0, len(volumes))
	for _, v := range volumes {
		records = append(records, Normalize(v))
	}
	return records
}

// Normalize maps one volume to a BookRecord, substituting the documented
// default for every absent field. Title, Author, Genre and CoverURL are
// never empty in the result.
func Normalize(v Volume) domain.BookRecord {
	info := v.VolumeInfo

	return domain.BookRecord{
		SourceID:      v.ID,
		Title:         orDefault(info.Title, domain.DefaultTitle),
		Author:        orDefault(first(info.Authors), domain.DefaultAuthor),
		Genre:         orDefault(first(info.Categories), domain.DefaultGenre),
		CoverURL:      orDefault(coverURL(info.ImageLinks), domain.DefaultCoverURL),
		Description:   orDefault(info.Description, domain.DefaultDescription),
		PageCount:     max(info.PageCount, 0),
		PublishedDate: orDefault(info.PublishedDate, domain.DefaultPublishedDate),
		AverageRating: max(info.AverageRating, 0),
		RatingsCount:  max(info.RatingsCount, 0),
		PreviewLink:   strings.TrimSpace(info.PreviewLink),
		ISBN:          pickISBN(info.IndustryIdentifiers),
	}
}

// coverURL prefers the regular thumbnail, then the small one
func coverURL(links *ImageLinks) string {
	if links == nil {
		return ""
	}
	if strings.TrimSpace(links.Thumbnail) != "" {
		return links.Thumbnail
	}
	return links.SmallThumbnail
}

// pickISBN returns ISBN-13 if present, else ISBN-10
func pickISBN(ids []IndustryIdentifier) string {
	var isbn10 string
	for _, id := range ids {
		switch id.Type {
		case "ISBN_13":
			return id.Identifier
		case "ISBN_10":
			if isbn10 == "" {
				isbn10 = id.Identifier
			}
		}
	}
	return isbn10
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
