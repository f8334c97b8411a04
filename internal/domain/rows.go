package domain

import "time"

// Row is a tagged provenance record that knows its target table and its
// ordered column list. The store dispatches on these instead of reflecting
// over arbitrary structs, so the set of persistable shapes is closed at
// compile time.
type Row interface {
	TableName() string
	Columns() (names []string, values []any)
}

// Language is a BCP-47-like language code.
type Language struct {
	Code string
}

func (Language) TableName() string { return "languages" }

func (l Language) Columns() ([]string, []any) {
	return []string{"code"}, []any{l.Code}
}

// Translator identifies a translation provider ("mymemory", "yandex").
type Translator struct {
	Name string
}

func (Translator) TableName() string { return "translators" }

func (t Translator) Columns() ([]string, []any) {
	return []string{"translator"}, []any{t.Name}
}

// PublicationStatus is a lifecycle state of a publication.
type PublicationStatus struct {
	Status string
}

// Publication lifecycle states seeded on first use.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusFailed    = "failed"
)

func (PublicationStatus) TableName() string { return "publication_status" }

func (s PublicationStatus) Columns() ([]string, []any) {
	return []string{"status"}, []any{s.Status}
}

// Subject is a top-level content domain.
type Subject struct {
	Name string
}

func (Subject) TableName() string { return "subjects" }

func (s Subject) Columns() ([]string, []any) {
	return []string{"subject"}, []any{s.Name}
}

// Category is a sub-domain of a Subject.
type Category struct {
	Name      string
	SubjectID int64
}

func (Category) TableName() string { return "categories" }

func (c Category) Columns() ([]string, []any) {
	return []string{"category", "subject_id"}, []any{c.Name, c.SubjectID}
}

// Topic is a content theme within a Category.
type Topic struct {
	Name       string
	CategoryID int64
}

func (Topic) TableName() string { return "topics" }

func (t Topic) Columns() ([]string, []any) {
	return []string{"topic", "category_id"}, []any{t.Name, t.CategoryID}
}

// Platform is a publishing destination type (Zen, Telegram, ...).
type Platform struct {
	Name string
	URL  string
}

func (Platform) TableName() string { return "platforms" }

func (p Platform) Columns() ([]string, []any) {
	return []string{"name", "url"}, []any{p.Name, p.URL}
}

// Channel is a concrete publishing target on a Platform.
type Channel struct {
	Name       string
	URL        string
	PlatformID int64
	SubjectID  int64
}

func (Channel) TableName() string { return "channels" }

func (c Channel) Columns() ([]string, []any) {
	return []string{"name", "url", "platform_id", "subject_id"},
		[]any{c.Name, c.URL, c.PlatformID, c.SubjectID}
}

// ChannelCategory links a Channel with a Category (many-to-many).
type ChannelCategory struct {
	ChannelID  int64
	CategoryID int64
}

func (ChannelCategory) TableName() string { return "channels_categories" }

func (c ChannelCategory) Columns() ([]string, []any) {
	return []string{"channel_id", "category_id"}, []any{c.ChannelID, c.CategoryID}
}

// OriginalText is raw acquired text, immutable once created. New acquisitions
// create new rows, preserving history.
type OriginalText struct {
	LanguageID int64
	Text       string
	TopicID    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (OriginalText) TableName() string { return "original_texts" }

func (t OriginalText) Columns() ([]string, []any) {
	return []string{"language_id", "text", "topic_id", "created_at", "updated_at"},
		[]any{t.LanguageID, t.Text, nullableID(t.TopicID), timestamp(t.CreatedAt), timestamp(t.UpdatedAt)}
}

// Video is a source content item keyed by its external (YouTube) id.
type Video struct {
	ExternalID  string
	Title       string
	Description string
	TopicID     int64
	TextID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Video) TableName() string { return "videos" }

func (v Video) Columns() ([]string, []any) {
	return []string{"youtube_id", "title", "description", "topic_id", "text_id", "created_at", "updated_at"},
		[]any{v.ExternalID, v.Title, v.Description, nullableID(v.TopicID), nullableID(v.TextID),
			timestamp(v.CreatedAt), timestamp(v.UpdatedAt)}
}

// Translate is a translation of an OriginalText into a target language.
type Translate struct {
	TextID         int64
	LanguageID     int64
	TranslatedText string
	TranslatorID   int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Translate) TableName() string { return "translates" }

func (t Translate) Columns() ([]string, []any) {
	return []string{"text_id", "language_id", "translated_text", "translator_id", "created_at", "updated_at"},
		[]any{t.TextID, t.LanguageID, t.TranslatedText, t.TranslatorID,
			timestamp(t.CreatedAt), timestamp(t.UpdatedAt)}
}

// Rewrite is a stylistic rewrite of a Translate or, on the direct branch,
// of the original text itself (TranslateID zero persists as NULL).
type Rewrite struct {
	Text        string
	LanguageID  int64
	TranslateID int64
	TopicID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Rewrite) TableName() string { return "rewrites" }

func (r Rewrite) Columns() ([]string, []any) {
	return []string{"rewrite_text", "language_id", "translate_id", "topic_id", "created_at", "updated_at"},
		[]any{r.Text, r.LanguageID, nullableID(r.TranslateID), nullableID(r.TopicID),
			timestamp(r.CreatedAt), timestamp(r.UpdatedAt)}
}

// Publication is a placement of a Rewrite on a Channel. A rewrite may be
// published at most once per channel, enforced by the schema.
type Publication struct {
	RewriteID    int64
	ChannelID    int64
	PublishDate  time.Time
	StatusID     int64
	PublishedURL string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Publication) TableName() string { return "publications" }

func (p Publication) Columns() ([]string, []any) {
	return []string{"rewrite_id", "channel_id", "publish_date", "status_id", "published_url", "created_at", "updated_at"},
		[]any{p.RewriteID, p.ChannelID, timestamp(p.PublishDate), p.StatusID, p.PublishedURL,
			timestamp(p.CreatedAt), timestamp(p.UpdatedAt)}
}

// nullableID converts an unset surrogate key into SQL NULL so optional
// references do not trip foreign-key enforcement.
func nullableID(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

func timestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
