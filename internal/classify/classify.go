package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nikolastas/logistis-sub000/internal/catalog"
	"github.com/nikolastas/logistis-sub000/internal/models"
	"github.com/nikolastas/logistis-sub000/internal/textnorm"
)

const (
	// counterparty text is cut at the first whitespace after this many runes
	counterpartySoftLimit = 20
	maxAliasDistance      = 2
	minAliasWord          = 3
)

// Classify runs DefaultRules against m.
func Classify(m models.RawMovement, members []models.HouseholdMember) models.TransferClassification {
	return ClassifyWith(DefaultRules, m, members)
}

// ClassifyWith runs rules in order against m. It never fails: with no match
// the result is transfer type none with every other field empty.
func ClassifyWith(rules []Rule, m models.RawMovement, members []models.HouseholdMember) models.TransferClassification {
	in := Input{Movement: m, Description: textnorm.Fold(m.Description)}
	for _, r := range rules {
		v, ok := r.Match(in)
		if !ok {
			continue
		}
		return resolve(v, m, members)
	}
	return models.TransferClassification{TransferType: models.TransferNone}
}

// RuleName reports which rule of DefaultRules would match m, or "none".
func RuleName(m models.RawMovement) string {
	in := Input{Movement: m, Description: textnorm.Fold(m.Description)}
	for _, r := range DefaultRules {
		if _, ok := r.Match(in); ok {
			return r.Name
		}
	}
	return "none"
}

func resolve(v Verdict, m models.RawMovement, members []models.HouseholdMember) models.TransferClassification {
	if v.Type == models.TransferOwnAccount {
		return models.TransferClassification{
			TransferType:         models.TransferOwnAccount,
			ExcludeFromAnalytics: true,
			CategoryID:           catalog.OwnAccount,
			HighConfidence:       v.HighConfidence,
		}
	}

	outbound := !m.Amount.IsPositive()
	out := models.TransferClassification{
		TransferType:     models.TransferThirdParty,
		CounterpartyName: v.Counterparty,
		HighConfidence:   v.HighConfidence,
		CategoryID:       direction(outbound, catalog.ToThirdParty, catalog.FromThirdParty),
	}
	if member, ok := MatchMember(v.Counterparty, members); ok {
		out.TransferType = models.TransferHouseholdMember
		out.CounterpartyUserID = member.ID
		out.CategoryID = direction(outbound, catalog.ToHouseholdMember, catalog.FromHouseholdMember)
	}
	return out
}

func direction(outbound bool, to, from string) string {
	if outbound {
		return to
	}
	return from
}

// MatchMember returns the first member with an alias close to counterparty.
// The whole counterparty matches a whole alias within two edits, or an alias
// word of three or more letters within two edits. Containment either way
// between an alias word and the counterparty also matches.
func MatchMember(counterparty string, members []models.HouseholdMember) (models.HouseholdMember, bool) {
	cp := textnorm.Normalize(counterparty)
	if cp == "" {
		return models.HouseholdMember{}, false
	}

	for _, member := range members {
		for _, alias := range member.NameAliases {
			if aliasMatches(cp, alias) {
				return member, true
			}
		}
	}
	return models.HouseholdMember{}, false
}

func aliasMatches(cp, alias string) bool {
	a := textnorm.Normalize(alias)
	if a == "" {
		return false
	}
	if textnorm.Distance(cp, a) <= maxAliasDistance {
		return true
	}
	cpLong := utf8.RuneCountInString(cp) >= minAliasWord
	for _, aw := range textnorm.Words(a, minAliasWord) {
		if textnorm.Distance(aw, cp) <= maxAliasDistance {
			return true
		}
		if strings.Contains(cp, aw) || (cpLong && strings.Contains(aw, cp)) {
			return true
		}
	}
	return false
}

// counterpartyAfter returns the original text following the folded offset
// end, cut at the first digit or currency marker, or at whitespace once the
// soft limit is passed.
func counterpartyAfter(in Input, end int) string {
	rest := in.Movement.Description[in.Description.SourceOffset(end):]
	rest = strings.TrimLeftFunc(rest, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})

	n := 0
	cut := len(rest)
	for i, r := range rest {
		if unicode.IsDigit(r) || unicode.Is(unicode.Sc, r) {
			cut = i
			break
		}
		if n >= counterpartySoftLimit && unicode.IsSpace(r) {
			cut = i
			break
		}
		n++
	}
	rest = rest[:cut]
	rest = strings.TrimRightFunc(rest, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return strings.Join(strings.Fields(rest), " ")
}
