package models

import (
	"fmt"
	"slices"
	"time"
)

// ItemKind is the closed set of item types a Content row can reference
type ItemKind string

const (
	ItemKindText  ItemKind = "text"
	ItemKindFile  ItemKind = "file"
	ItemKindImage ItemKind = "image"
	ItemKindVideo ItemKind = "video"
)

// ItemKinds lists every allowed kind tag
var ItemKinds = []ItemKind{ItemKindText, ItemKindFile, ItemKindImage, ItemKindVideo}

// ParseItemKind validates a kind tag supplied by a caller
func ParseItemKind(s string) (ItemKind, error) {
	kind := ItemKind(s)
	if !slices.Contains(ItemKinds, kind) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return kind, nil
}

// HasStoredFile reports whether items of this kind keep their payload in media storage
func (k ItemKind) HasStoredFile() bool {
	return k == ItemKindFile || k == ItemKindImage
}

// ItemBase holds the attributes shared by every item variant.
// It is never persisted on its own.
type ItemBase struct {
	ID      int       `json:"id"`
	OwnerID int       `json:"ownerId"`
	Title   string    `json:"title"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// Base returns the shared attributes
func (b *ItemBase) Base() *ItemBase { return b }

// Item is implemented by every concrete item variant
type Item interface {
	Kind() ItemKind
	Base() *ItemBase
	// Payload returns the variant-specific value (text, file reference or URL)
	Payload() string
	SetPayload(value string)
}

// Text is an item holding inline text
type Text struct {
	ItemBase
	Content string `json:"content"`
}

func (t *Text) Kind() ItemKind { return ItemKindText }
func (t *Text) Payload() string { return t.Content }
func (t *Text) SetPayload(v string) { t.Content = v }

// File is an item referencing an uploaded file
type File struct {
	ItemBase
	File string `json:"file"`
}

func (f *File) Kind() ItemKind { return ItemKindFile }
func (f *File) Payload() string { return f.File }
func (f *File) SetPayload(v string) { f.File = v }

// Image is an item referencing an uploaded image
type Image struct {
	ItemBase
	File string `json:"file"`
}

func (i *Image) Kind() ItemKind { return ItemKindImage }
func (i *Image) Payload() string { return i.File }
func (i *Image) SetPayload(v string) { i.File = v }

// Video is an item referencing an external video URL
type Video struct {
	ItemBase
	URL string `json:"url"`
}

func (v *Video) Kind() ItemKind { return ItemKindVideo }
func (v *Video) Payload() string { return v.URL }
func (v *Video) SetPayload(val string) { v.URL = val }

// NewItem returns an empty item of the given kind
func NewItem(kind ItemKind) (Item, error) {
	switch kind {
	case ItemKindText:
		return &Text{}, nil
	case ItemKindFile:
		return &File{}, nil
	case ItemKindImage:
		return &Image{}, nil
	case ItemKindVideo:
		return &Video{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
}

// ItemRequest carries item attributes for create and update.
// Only the payload field matching the item kind is used.
type ItemRequest struct {
	Title   string `json:"title" validate:"omitempty,max=250"`
	Content string `json:"content,omitempty"`
	File    string `json:"file,omitempty" validate:"omitempty,max=500"`
	URL     string `json:"url,omitempty" validate:"omitempty,url"`
}

// PayloadFor returns the request field that carries the payload of the given kind
func (r *ItemRequest) PayloadFor(kind ItemKind) string {
	switch kind {
	case ItemKindText:
		return r.Content
	case ItemKindFile, ItemKindImage:
		return r.File
	case ItemKindVideo:
		return r.URL
	}
	return ""
}
