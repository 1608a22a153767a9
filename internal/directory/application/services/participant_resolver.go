package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/rendezvous/internal/directory/domain"
)

// SelfDisplayName labels the requesting user in resolved participant lists.
const SelfDisplayName = "You"

// fallbackDomain is appended to unmatched tokens. The guess is speculative and
// logged as such.
const fallbackDomain = "gmail.com"

// ParticipantResolver maps free-text participant tokens to canonical identities.
type ParticipantResolver struct {
	contacts  domain.Repository
	userEmail string
	logger    *slog.Logger
}

// NewParticipantResolver creates a resolver for the given requesting user.
func NewParticipantResolver(contacts domain.Repository, userEmail string, logger *slog.Logger) *ParticipantResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParticipantResolver{
		contacts:  contacts,
		userEmail: userEmail,
		logger:    logger,
	}
}

// Resolve returns one participant per token, in token order, with the
// requesting user inserted first unless already present. Directory failures
// are treated as "no match".
func (r *ParticipantResolver) Resolve(ctx context.Context, tokens []string) []domain.Participant {
	var byEmail, byName map[string]domain.Contact
	contacts, err := r.contacts.List(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to list contacts", "error", err)
	} else {
		byEmail = make(map[string]domain.Contact, len(contacts))
		byName = make(map[string]domain.Contact, len(contacts))
		for _, c := range contacts {
			byEmail[c.Key()] = c
			name := strings.ToLower(strings.TrimSpace(c.DisplayName))
			if _, dup := byName[name]; !dup {
				byName[name] = c
			}
		}
	}

	resolved := make([]domain.Participant, 0, len(tokens)+1)
	for _, token := range tokens {
		resolved = append(resolved, r.resolveToken(ctx, token, byEmail, byName))
	}

	if r.userEmail != "" && !domain.ContainsEmail(resolved, r.userEmail) {
		self := domain.Participant{PrimaryEmail: r.userEmail, DisplayName: SelfDisplayName}
		resolved = append([]domain.Participant{self}, resolved...)
	}

	return resolved
}

func (r *ParticipantResolver) resolveToken(ctx context.Context, token string, byEmail, byName map[string]domain.Contact) domain.Participant {
	normalized := strings.ToLower(strings.TrimSpace(token))

	isEmail := strings.Contains(normalized, "@")
	if isEmail {
		if c, ok := byEmail[normalized]; ok {
			return c.Participant()
		}
	}
	if c, ok := byName[normalized]; ok {
		return c.Participant()
	}

	if normalized != "" {
		hits, err := r.contacts.Search(ctx, normalized)
		if err != nil {
			r.logger.WarnContext(ctx, "contact search failed", "token", token, "error", err)
		} else if len(hits) > 0 {
			domain.SortContacts(hits)
			return hits[0].Participant()
		}
	}

	// An address is used as typed rather than suffixed with the fallback domain.
	if isEmail {
		r.logger.WarnContext(ctx, "no contact matched participant, using address as given",
			"token", token,
			"email", normalized,
		)
		return domain.Participant{PrimaryEmail: normalized, DisplayName: token}
	}

	guess := strings.ReplaceAll(normalized, " ", "") + "@" + fallbackDomain
	r.logger.WarnContext(ctx, "no contact matched participant, using speculative address",
		"token", token,
		"email", guess,
	)
	return domain.Participant{PrimaryEmail: guess, DisplayName: token}
}
