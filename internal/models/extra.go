package models

import (
	"bytes"
	"encoding/json"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Extra holds object keys a model does not declare. They are written back
// unchanged so that a save never drops data this version does not know about.
type Extra map[string]json.RawMessage

var knownKeysCache sync.Map // reflect.Type -> map[string]struct{}

// knownKeys returns the lower-cased JSON names of t's fields, matching the
// case-insensitive key lookup of encoding/json.
func knownKeys(t reflect.Type) map[string]struct{} {
	if cached, ok := knownKeysCache.Load(t); ok {
		return cached.(map[string]struct{})
	}
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		keys[strings.ToLower(name)] = struct{}{}
	}
	knownKeysCache.Store(t, keys)
	return keys
}

// decodeObject decodes data into v, a pointer to a struct, and returns the keys v does not declare.
func decodeObject(data []byte, v any) (Extra, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	known := knownKeys(reflect.TypeOf(v).Elem())
	var extra Extra
	for key, value := range raw {
		if _, ok := known[strings.ToLower(key)]; ok {
			continue
		}
		if extra == nil {
			extra = make(Extra)
		}
		extra[key] = value
	}
	return extra, nil
}

// encodeObject encodes v, a struct, followed by the extra keys in sorted order.
func encodeObject(v any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	empty := len(data) == 2
	for _, key := range slices.Sorted(maps.Keys(extra)) {
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		if !empty {
			buf.WriteByte(',')
		}
		empty = false
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(extra[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type (
	snapshotFields        Snapshot
	analyticsFields       Analytics
	settingsFields        Settings
	pageFields            Page
	documentFields        Document
	collectionFields      Collection
	newsFields            News
	galleryItemFields     GalleryItem
	notificationFields    Notification
	researchRequestFields ResearchRequest
	contactMessageFields  ContactMessage
	userFields            User
	subscriberFields      Subscriber
)

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var f snapshotFields
	extra, err := decodeObject(data, &f)
	if err != nil {
		return err
	}
	*s = Snapshot(f)
	s.Extra = extra
	return nil
}

func (s Snapshot) MarshalJSON() ([]byte, error) { return encodeObject(snapshotFields(s), s.Extra) }

func (a *Analytics) UnmarshalJSON(data []byte) error {
	var f analyticsFields
	extra, err := decodeObject(data, &f)
	if err != nil {
		return err
	}
	*a = Analytics(f)
	a.Extra = extra
	return nil
}

func (a Analytics) MarshalJSON() ([]byte, error) { return encodeObject(analyticsFields(a), a.Extra) }

func (s *Settings) UnmarshalJSON(data []byte) error {
	var f settingsFields
	extra, err := decodeObject(data, &f)
	if err != nil {
		return err
	}
	*s = Settings(f)
	s.Extra = extra
	return nil
}

func (s Settings) MarshalJSON() ([]byte, error) { return encodeObject(settingsFields(s), s.Extra) }

func (p *Page) UnmarshalJSON(data []byte) error {
	var f pageFields
	extra, err := decodeObject(data, &f)
	if err != nil {
		return err
	}
	*p = Page(f)
	p.Extra = extra
	return nil
}

func (p Page) MarshalJSON() ([]byte, error) { return encodeObject(pageFields(p), p.Extra) }

func (d *Document) UnmarshalJSON(data []byte) error {
	var f documentFields
	extra, err := decodeObject(data, &f)
	if err != nil {
		return err
	}
	*d = Document(f)
	d.Extra = extra
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) { return encodeObject(documentFields(d), d.Extra) }

func (c *Collection) UnmarshalJSON(data []byte) error {
	var f collectionFields
	extra, err := decodeObject(data, &f)
	if err != nil {
		return err
	}
	*c = Collection(f)
	c.Extra = extra
	return nil
}

func (c Collection) MarshalJSON() ([]byte, error) { return encodeObject(collectionFields(c), c.Extra) }

func (n *News) UnmarshalJSON(data []byte) error {
	var f newsFields
	extra, err := decodeObject(data, &f)
	if err != nil {
		return err
	}
	*n = News(f)
	n.Extra = extra
	return nil
}

func (n News) MarshalJSON() ([]byte, error) { return encodeObject(newsFields(n), n.Extra) }

func (g *GalleryItem) UnmarshalJSON(data []byte) error {
	var f galleryItemFields
	extra, err := decodeObject(data, &f)
	if err != nil {
		return err
	}
	*g = GalleryItem(f)
	g.Extra = extra
	return nil
}

func (g GalleryItem) MarshalJSON() ([]byte, error) { return encodeObject(galleryItemFields(g), g.Extra) }

func (n *Notification) UnmarshalJSON(data []byte) error {
	var f notificationFields
	extra, err := decodeObject(data, &f)
	if err != nil {
		return err
	}
	*n = Notification(f)
	n.Extra = extra
	return nil
}

func (n Notification) MarshalJSON() ([]byte, error) {
	return encodeObject(notificationFields(n), n.Extra)
}

func (r *ResearchRequest) UnmarshalJSON(data []byte) error {
	var f researchRequestFields
	extra, err := decodeObject(data, &f)
	if err != nil {
		return err
	}
	*r = ResearchRequest(f)
	r.Extra = extra
	return nil
}

func (r ResearchRequest) MarshalJSON() ([]byte, error) {
	return encodeObject(researchRequestFields(r), r.Extra)
}

func (m *ContactMessage) UnmarshalJSON(data []byte) error {
	var f contactMessageFields
	extra, err := decodeObject(data, &f)
	if err != nil {
		return err
	}
	*m = ContactMessage(f)
	m.Extra = extra
	return nil
}

func (m ContactMessage) MarshalJSON() ([]byte, error) {
	return encodeObject(contactMessageFields(m), m.Extra)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var f userFields
	extra, err := decodeObject(data, &f)
	if err != nil {
		return err
	}
	*u = User(f)
	u.Extra = extra
	return nil
}

func (u User) MarshalJSON() ([]byte, error) { return encodeObject(userFields(u), u.Extra) }

func (s *Subscriber) UnmarshalJSON(data []byte) error {
	var f subscriberFields
	extra, err := decodeObject(data, &f)
	if err != nil {
		return err
	}
	*s = Subscriber(f)
	s.Extra = extra
	return nil
}

func (s Subscriber) MarshalJSON() ([]byte, error) { return encodeObject(subscriberFields(s), s.Extra) }
