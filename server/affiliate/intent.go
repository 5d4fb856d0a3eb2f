package affiliate

// Error keys returned to the messaging adapter.
const (
	ErrorKeyInvalidURL     = "invalid-url"
	ErrorKeyNoTagForRegion = "no-tag-for-region"
)

// Intent is what the adapter should present for a processed command or message.
// The set is closed: Ignore, CleanLinkReply, LinkButtons, DeleteWithHint and ErrorReply.
type Intent interface {
	intent()
}

// Ignore asks the adapter to do nothing.
type Ignore struct{}

// CleanLinkReply is a tagged link answering an explicit request.
type CleanLinkReply struct {
	URL    string
	Footer string
}

// TaggedLink is one link of a LinkButtons presentation.
type TaggedLink struct {
	URL     string
	Listing Listing
}

// LinkButtons presents tagged links next to a message with mixed content.
type LinkButtons struct {
	Links  []TaggedLink
	Footer string
}

// DeleteWithHint asks the adapter to remove a link-only message and point its author
// to the link command.
type DeleteWithHint struct {
	Mention string
}

// ErrorReply reports a rejected request with one of the ErrorKey values.
type ErrorReply struct {
	Key    string
	Region string
}

func (Ignore) intent()         {}
func (CleanLinkReply) intent() {}
func (LinkButtons) intent()    {}
func (DeleteWithHint) intent() {}
func (ErrorReply) intent()     {}
