package ports

import (
	"context"
	"time"

	"ContentHarvester/internal/domain"
)

// SubtitleSource fetches source text for a video in exactly one language.
// Fallback-language selection is the orchestrator's concern, not this one's.
type SubtitleSource interface {
	Fetch(ctx context.Context, videoID, language string) (domain.Transcript, error)
}

// Translator converts text between languages, chunking and reassembling
// internally. Order of the reassembled output follows chunk emission order.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Rewriter turns acquired or translated text into a publication-ready article.
type Rewriter interface {
	Rewrite(ctx context.Context, text string) (string, error)
}

// VideoSearch discovers candidate videos for a query.
type VideoSearch interface {
	Search(ctx context.Context, query string, maxResults int) ([]domain.VideoResult, error)
}

// ProvenanceStore exclusively owns persistence. Stages receive and return
// plain data; only the orchestrator talks to the store.
type ProvenanceStore interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, row domain.Row) (int64, error)
	VideoExists(ctx context.Context, externalID string) (bool, error)
	GetOrCreateLanguage(ctx context.Context, code string) (int64, error)
	GetOrCreateTranslator(ctx context.Context, name string) (int64, error)
	GetOrCreateStatus(ctx context.Context, status string) (int64, error)
}

// Notifier announces finished articles to an out-of-band channel.
type Notifier interface {
	PublishArticle(ctx context.Context, title, article string) error
}

// Scheduler controls when harvest runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
