package catalog

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"whiteboard-service/internal/adapters/storage"
)

// ObjectSource lists template images from object storage
type ObjectSource interface {
	ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	ObjectURL(key string) string
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".svg":  true,
	".webp": true,
}

// MinioStore derives the catalog from the images under a bucket prefix. The file name
// without extension is the template id.
type MinioStore struct {
	source ObjectSource
	prefix string
}

func NewMinioStore(source ObjectSource, prefix string) *MinioStore {
	return &MinioStore{source: source, prefix: prefix}
}

func (s *MinioStore) List(ctx context.Context) ([]Template, error) {
	objects, err := s.source.ListObjects(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list template images: %w", err)
	}

	templates := make([]Template, 0, len(objects))
	seen := make(map[string]bool, len(objects))
	for _, obj := range objects {
		ext := strings.ToLower(path.Ext(obj.Key))
		if !imageExtensions[ext] {
			continue
		}
		id := strings.TrimSuffix(path.Base(obj.Key), path.Ext(obj.Key))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		templates = append(templates, Template{
			ID:   id,
			Name: displayName(id),
			URL:  s.source.ObjectURL(obj.Key),
		})
	}

	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
	return templates, nil
}

// displayName turns "floor-plan_v2" into "Floor Plan V2"
func displayName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
