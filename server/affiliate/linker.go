package affiliate

import (
	"context"
	"strings"
	"time"
)

// MaxLinkButtons is the number of tagged links presented for one message.
const MaxLinkButtons = 5

// Outcome labels reported to the Observer.
const (
	OutcomeTagged     = "tagged"
	OutcomeInvalidURL = "invalid_url"
	OutcomeNoTag      = "no_tag"
)

// URLResolver follows redirects of a link. Failures return the input.
type URLResolver interface {
	Resolve(ctx context.Context, rawURL string) string
}

// Options configures a Linker.
type Options struct {
	Store    SettingsStore
	Defaults Defaults
	Logger   Logger
	// Resolver overrides the HTTP resolver built from ResolveTimeout.
	Resolver       URLResolver
	ResolveTimeout time.Duration
	// Observer receives outcomes; optional.
	Observer Observer
	// Now overrides the usage event clock; optional.
	Now func() time.Time
}

// LinkRequest is an explicit request to tag one link.
type LinkRequest struct {
	Scope   Scope
	URL     string
	Mention string
}

// Message is a chat message that may contain marketplace links.
type Message struct {
	Scope   Scope
	Text    string
	Mention string
}

// Linker runs the link pipeline for commands and messages.
type Linker struct {
	resolver       URLResolver
	tags           *TagResolver
	usage          *UsageRecorder
	fallbackRegion string
	log            Logger
	observer       Observer
}

// NewLinker wires the pipeline components.
func NewLinker(opts Options) *Linker {
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	resolver := opts.Resolver
	if resolver == nil {
		r := NewResolver(opts.ResolveTimeout, opts.Logger)
		r.observer = observer
		resolver = r
	}

	usage := NewUsageRecorder(opts.Store, opts.Logger)
	usage.observer = observer
	if opts.Now != nil {
		usage.now = opts.Now
	}

	tags := NewTagResolver(opts.Store, opts.Defaults, opts.Logger)

	return &Linker{
		resolver:       resolver,
		tags:           tags,
		usage:          usage,
		fallbackRegion: tags.defaults.FallbackRegion,
		log:            opts.Logger,
		observer:       observer,
	}
}

// TagLink resolves, parses and tags one link and records its usage.
func (l *Linker) TagLink(ctx context.Context, req LinkRequest) Intent {
	link, res, rejection := l.tagOne(ctx, req.Scope, normalizeLinkInput(req.URL))
	if rejection != nil {
		return *rejection
	}

	return CleanLinkReply{
		URL:    link.URL,
		Footer: RenderFooter(res, req.Mention),
	}
}

// HandleMessage decides how a posted message with marketplace links is presented.
// Direct messages are left alone.
func (l *Linker) HandleMessage(ctx context.Context, msg Message) Intent {
	if msg.Scope.IsDirectMessage() {
		return Ignore{}
	}

	text := strings.TrimSpace(msg.Text)
	if !MentionsMarketplace(text) {
		return Ignore{}
	}

	candidates := ExtractLinks(text)
	if len(candidates) == 0 {
		return Ignore{}
	}

	composition := Classify(text)
	l.observer.MessageClassified(composition.String())
	if composition == LinkOnly {
		return DeleteWithHint{Mention: msg.Mention}
	}

	var (
		links []TaggedLink
		first *Resolution
	)
	for _, candidate := range candidates {
		link, res, rejection := l.tagOne(ctx, msg.Scope, candidate.URL)
		if rejection != nil {
			continue
		}
		if first == nil {
			first = &res
		}
		links = append(links, link)
		if len(links) >= MaxLinkButtons {
			break
		}
	}

	if len(links) == 0 {
		return Ignore{}
	}

	return LinkButtons{
		Links:  links,
		Footer: RenderFooter(*first, msg.Mention),
	}
}

// tagOne runs resolve, parse, tag resolution and usage recording for one link.
func (l *Linker) tagOne(ctx context.Context, scope Scope, rawURL string) (TaggedLink, Resolution, *ErrorReply) {
	resolved := l.resolver.Resolve(ctx, rawURL)

	listing, ok := parseListing(resolved, l.fallbackRegion)
	if !ok {
		l.log.LogDebug("Could not parse marketplace link", "url", rawURL, "resolved", resolved)
		l.observer.LinkProcessed(OutcomeInvalidURL)
		return TaggedLink{}, Resolution{}, &ErrorReply{Key: ErrorKeyInvalidURL}
	}
	if listing.RegionDefaulted {
		l.log.LogWarn("Link host is not a marketplace domain, assuming fallback region", "url", resolved, "region", listing.Region)
	}

	res, err := l.tags.Resolve(ctx, scope, listing.Region)
	if err != nil {
		l.log.LogDebug("No tracking tag for region", "scope", scope.String(), "region", listing.Region)
		l.observer.LinkProcessed(OutcomeNoTag)
		return TaggedLink{}, Resolution{}, &ErrorReply{Key: ErrorKeyNoTagForRegion, Region: listing.Region}
	}

	l.usage.Record(ctx, scope, listing.Region)
	l.observer.LinkProcessed(OutcomeTagged)

	return TaggedLink{URL: listing.CleanURL(res.Tag), Listing: listing}, res, nil
}

// normalizeLinkInput adds a scheme to links typed without one.
func normalizeLinkInput(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}
