package portal

import "github.com/daniilsolovey/tourism-portal/internal/db"

func Map[From, To any](list []From, converter func(*From) To) []To {
	result := make([]To, len(list))
	for i := range list {
		result[i] = converter(&list[i])
	}
	return result
}

func NewItems(in []db.Item) []Item {
	return Map(in, NewItem)
}

func NewPhotos(in []db.Photo) []Photo {
	return Map(in, NewPhoto)
}
