package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yukikurage/standup-api/internal/identity"
	"github.com/yukikurage/standup-api/internal/metrics"
	"github.com/yukikurage/standup-api/internal/models"
)

// ProfileLookup resolves user profiles from the identity provider.
type ProfileLookup interface {
	GetUserByID(ctx context.Context, userID string) (*identity.UserProfile, error)
}

// maxProfileFetches bounds concurrent requests to the identity provider.
const maxProfileFetches = 8

// EnrichedCollaborator is a collaborator joined with the provider profile.
type EnrichedCollaborator struct {
	models.Collaborator
	User *identity.UserProfile `json:"user"`
}

// enrichCollaborators fetches a profile for every collaborator concurrently.
// The result keeps the input order. Any failed lookup fails the whole call.
func enrichCollaborators(ctx context.Context, profiles ProfileLookup, collaborators []models.Collaborator) ([]EnrichedCollaborator, error) {
	result := make([]EnrichedCollaborator, len(collaborators))
	if len(collaborators) == 0 {
		return result, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxProfileFetches)

	for i, c := range collaborators {
		g.Go(func() error {
			profile, err := profiles.GetUserByID(gctx, c.UserID)
			if err != nil {
				metrics.ProfileLookups.WithLabelValues("error").Inc()
				return upstreamError("fetch profile for user "+c.UserID, err)
			}
			metrics.ProfileLookups.WithLabelValues("ok").Inc()
			result[i] = EnrichedCollaborator{Collaborator: c, User: profile}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
