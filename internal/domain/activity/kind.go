package activity

// Kind is the closed set of balance activities that score documents report.
// Anything else is KindUnknown and is reported by the caller, never dropped silently.
type Kind int

const (
	KindUnknown Kind = iota
	KindFeetTogether
	KindTandem
	KindInstep
	KindOneFoot
)

// Display labels as they appear in score documents and the catalog.
const (
	LabelFeetTogether = "Stand with your feet side-by-side"
	LabelTandem       = "Tandem Stance"
	LabelInstep       = "Instep Stance"
	LabelOneFoot      = "Stand on one foot"
)

// GeneralComments is the comment thread not tied to a single activity.
const GeneralComments = "General comments"

// GeneralFormKey selects the GeneralComments thread in forms.
const GeneralFormKey = "general"

// Kinds lists the known kinds in score-document order.
var Kinds = []Kind{KindFeetTogether, KindTandem, KindInstep, KindOneFoot}

var kindLabels = map[Kind]string{
	KindFeetTogether: LabelFeetTogether,
	KindTandem:       LabelTandem,
	KindInstep:       LabelInstep,
	KindOneFoot:      LabelOneFoot,
}

var kindFormKeys = map[Kind]string{
	KindFeetTogether: "feetTogether",
	KindTandem:       "tandem",
	KindInstep:       "instep",
	KindOneFoot:      "oneFoot",
}

// Label returns the display label, or "" for KindUnknown.
func (k Kind) Label() string {
	return kindLabels[k]
}

// FormKey returns the short key used by HTML forms.
func (k Kind) FormKey() string {
	return kindFormKeys[k]
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if l := k.Label(); l != "" {
		return l
	}
	return "unknown"
}

// Known reports whether k is one of the four balance activities.
func (k Kind) Known() bool {
	_, ok := kindLabels[k]
	return ok
}

// ParseLabel maps a display label to its Kind.
func ParseLabel(label string) Kind {
	for k, l := range kindLabels {
		if l == label {
			return k
		}
	}
	return KindUnknown
}

// ParseFormKey maps a form key to its Kind.
func ParseFormKey(key string) Kind {
	for k, fk := range kindFormKeys {
		if fk == key {
			return k
		}
	}
	return KindUnknown
}

// CommentThread resolves a form key to the comment thread label.
// Returns false when the key names neither an activity nor the general thread.
func CommentThread(formKey string) (string, bool) {
	if formKey == GeneralFormKey {
		return GeneralComments, true
	}
	if k := ParseFormKey(formKey); k.Known() {
		return k.Label(), true
	}
	return "", false
}

// HasThread reports whether name is a comment thread: the general thread,
// a known activity label, or an activity in catalog.
func HasThread(name string, catalog []Activity) bool {
	if name == GeneralComments || ParseLabel(name).Known() {
		return true
	}
	for _, a := range catalog {
		if a.Name == name {
			return true
		}
	}
	return false
}
