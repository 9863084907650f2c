package tagindex

import "go.uber.org/zap"

// Settings configures an Engine.
type Settings struct {
	CaseSensitive   bool
	MaxTagLength    int
	EnableHierarchy bool
	EnableSynonyms  bool
	Logger          *zap.SugaredLogger
}

// DefaultSettings mirrors the behaviour most hosts want: case folding,
// 50-rune tags, hierarchy and synonyms enabled, no logging.
func DefaultSettings() Settings {
	return Settings{
		MaxTagLength:    DefaultMaxTagLength,
		EnableHierarchy: true,
		EnableSynonyms:  true,
	}
}

// Option customizes Settings.
type Option func(*Settings)

// WithCaseSensitive keeps tag case instead of folding to lower case.
func WithCaseSensitive(enabled bool) Option {
	return func(s *Settings) { s.CaseSensitive = enabled }
}

// WithMaxTagLength caps tags at n runes. n <= 0 disables the cap.
func WithMaxTagLength(n int) Option {
	return func(s *Settings) { s.MaxTagLength = n }
}

// WithHierarchy enables or disables hierarchy edits and query expansion.
func WithHierarchy(enabled bool) Option {
	return func(s *Settings) { s.EnableHierarchy = enabled }
}

// WithSynonyms enables or disables synonym edits and query expansion.
func WithSynonyms(enabled bool) Option {
	return func(s *Settings) { s.EnableSynonyms = enabled }
}

// WithLogger sets the logger used for mutation tracing.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Settings) { s.Logger = logger }
}

// TagOption customizes a single TagItem call.
type TagOption func(*tagOptions)

type tagOptions struct {
	parents []string
	autoTag bool
}

// WithParentTags registers every newly added tag as a child of each parent.
func WithParentTags(parents ...string) TagOption {
	return func(o *tagOptions) { o.parents = append(o.parents, parents...) }
}

// WithAutoTag runs the engine's auto-tag hook for every newly added tag.
func WithAutoTag() TagOption {
	return func(o *tagOptions) { o.autoTag = true }
}
