package domain

// MediaKind groups remote objects by what they hold.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Media references a file held by the external object store.
// StorageID is what the store needs to delete it later.
type Media struct {
	URL       string `bson:"url" json:"url"`
	StorageID string `bson:"storageId" json:"storageId,omitempty"`
}

// IsZero reports whether no remote object is referenced.
func (m Media) IsZero() bool {
	return m.URL == "" && m.StorageID == ""
}
