// Package classify decides whether a movement is a transfer and who is on
// the other side of it.
package classify

import (
	"strings"

	"github.com/nikolastas/logistis-sub000/internal/models"
	"github.com/nikolastas/logistis-sub000/internal/textnorm"
)

// Input is what every rule sees: the movement and its folded description.
type Input struct {
	Movement    models.RawMovement
	Description textnorm.Folded
}

// Verdict is a rule's finding before counterparty resolution. Type is
// either own_account or third_party; the latter may be promoted to
// household_member once the counterparty is matched.
type Verdict struct {
	Type           models.TransferType
	Counterparty   string
	HighConfidence bool
}

// Rule is one predicate of the ordered rule list.
type Rule struct {
	Name  string
	Match func(in Input) (Verdict, bool)
}

// DefaultRules is evaluated top to bottom; the first match wins.
var DefaultRules = []Rule{
	AdapterOwnAccount,
	BankMarker,
	OwnAccountKeyword,
	ThirdPartyKeyword,
	StructuredHint,
}

// AdapterOwnAccount trusts an adapter that tagged the row as an internal transfer.
var AdapterOwnAccount = Rule{
	Name: "adapter-own-account",
	Match: func(in Input) (Verdict, bool) {
		if in.Movement.TransferHint != models.HintOwnAccount {
			return Verdict{}, false
		}
		return Verdict{Type: models.TransferOwnAccount, HighConfidence: true}, true
	},
}

type marker struct {
	phrase string
	own    bool
}

// Phrases printed by Greek banks on transfer rows. Own-account markers come
// first so "ΕΜΒΑΣΜΑ ΙΔΙΟΚΤΗΤΗ ΠΡΟΣ ..." never reaches "ΕΜΒΑΣΜΑ ΠΡΟΣ".
var bankMarkers = normalizeMarkers([]marker{
	{"ΕΜΒΑΣΜΑ ΙΔΙΟΚΤΗΤΗ", true},
	{"ΜΕΤΑΦΟΡΑ ΜΕΤΑΞΥ ΛΟΓΑΡΙΑΣΜΩΝ", true},
	{"ΜΕΤΑΦΟΡΑ ΣΕ ΙΔΙΟ ΛΟΓΑΡΙΑΣΜΟ", true},
	{"ΜΕΤΑΦΟΡΑ ΑΠΟ ΙΔΙΟ ΛΟΓΑΡΙΑΣΜΟ", true},
	{"ΕΜΒΑΣΜΑ ΠΡΟΣ", false},
	{"ΕΜΒΑΣΜΑ ΑΠΟ", false},
	{"ΑΠΟΣΤΟΛΗ IRIS ΣΕ", false},
	{"ΛΗΨΗ IRIS ΑΠΟ", false},
	{"ΑΠΟΣΤΟΛΗ ΧΡΗΜΑΤΩΝ ΣΕ", false},
	{"ΛΗΨΗ ΧΡΗΜΑΤΩΝ ΑΠΟ", false},
})

func normalizeMarkers(in []marker) []marker {
	out := make([]marker, len(in))
	for i, m := range in {
		out[i] = marker{phrase: textnorm.Normalize(m.phrase), own: m.own}
	}
	return out
}

// BankMarker matches exact bank-issued phrases. High confidence.
var BankMarker = Rule{
	Name: "bank-marker",
	Match: func(in Input) (Verdict, bool) {
		for _, m := range bankMarkers {
			_, end, ok := in.Description.IndexPhrase(m.phrase)
			if !ok {
				continue
			}
			if m.own {
				return Verdict{Type: models.TransferOwnAccount, HighConfidence: true}, true
			}
			return Verdict{
				Type:           models.TransferThirdParty,
				Counterparty:   counterpartyAfter(in, end),
				HighConfidence: true,
			}, true
		}
		return Verdict{}, false
	},
}

var ownAccountKeywords = normalizeAll([]string{
	"own account",
	"own accounts",
	"between accounts",
	"between own accounts",
	"internal transfer",
	"account transfer",
	"to savings",
	"from savings",
	"pocket",
	"vault",
	"εσωτερικη μεταφορα",
	"ιδιο λογαριασμο",
	"ιδιου λογαριασμου",
	"μεταξυ λογαριασμων",
	"μεταφορα σε αποταμιευτικο",
})

// OwnAccountKeyword matches generic wording for moving money between the
// owner's accounts.
var OwnAccountKeyword = Rule{
	Name: "own-account-keyword",
	Match: func(in Input) (Verdict, bool) {
		for _, k := range ownAccountKeywords {
			if _, _, ok := in.Description.IndexPhrase(k); ok {
				return Verdict{Type: models.TransferOwnAccount}, true
			}
		}
		return Verdict{}, false
	},
}

// Longer phrases precede their own suffixes.
var thirdPartyKeywords = normalizeAll([]string{
	"send money to",
	"sent money to",
	"money sent to",
	"money received from",
	"received from",
	"transfer to",
	"transfer from",
	"payment to",
	"payment from",
	"wire to",
	"wire from",
	"sepa credit transfer to",
	"μεταφορα σε",
	"μεταφορα προς",
	"μεταφορα απο",
	"εμβασμα σε",
	"αποστολη σε",
	"πληρωμη σε",
	"πληρωμη προς",
	"πιστωση απο",
	"iris σε",
	"iris προς",
	"iris απο",
})

// ThirdPartyKeyword matches outbound or inbound transfer wording and takes
// the text after it as the counterparty.
var ThirdPartyKeyword = Rule{
	Name: "third-party-keyword",
	Match: func(in Input) (Verdict, bool) {
		for _, k := range thirdPartyKeywords {
			if _, end, ok := in.Description.IndexPhrase(k); ok {
				return Verdict{
					Type:         models.TransferThirdParty,
					Counterparty: counterpartyAfter(in, end),
				}, true
			}
		}
		return Verdict{}, false
	},
}

// StructuredHint uses counterparty columns or an adapter transfer tag.
var StructuredHint = Rule{
	Name: "structured-hint",
	Match: func(in Input) (Verdict, bool) {
		raw := in.Movement.RawData
		name := strings.TrimSpace(raw[models.RawCounterpartyName])
		if strings.TrimSpace(raw[models.RawCounterpartyAccount]) != "" || in.Movement.TransferHint == models.HintTransfer {
			return Verdict{Type: models.TransferThirdParty, Counterparty: name}, true
		}
		return Verdict{}, false
	},
}

func normalizeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = textnorm.Normalize(s)
	}
	return out
}
