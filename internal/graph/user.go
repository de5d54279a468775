package graph

import (
	"context"

	"github.com/arlberg/hn-graphql/pkg/hn"
)

type userResolver struct {
	r    *Resolver
	user *hn.User
}

func (u *userResolver) ID() string { return u.user.ID }
func (u *userResolver) Created() int32 { return int32(u.user.Created) }
func (u *userResolver) Karma() int32 { return int32(u.user.Karma) }
func (u *userResolver) About() *string { return u.user.About }

func (u *userResolver) Delay() *int32 {
	if u.user.Delay == nil {
		return nil
	}
	delay := int32(*u.user.Delay)
	return &delay
}

func (u *userResolver) Submitted() []int32 {
	return int32IDs(u.user.Submitted)
}

func (u *userResolver) SubmittedConnection(ctx context.Context, args listArgs) []*itemResolver {
	return u.r.loadItems(ctx, take(u.user.Submitted, args.Limit, len(u.user.Submitted)))
}

type updatesResolver struct {
	r       *Resolver
	updates hn.Updates
}

func (u *updatesResolver) Items() []int32 {
	return int32IDs(u.updates.Items)
}

func (u *updatesResolver) Profiles() []string {
	if u.updates.Profiles == nil {
		return []string{}
	}
	return u.updates.Profiles
}

func (u *updatesResolver) ItemsConnection(ctx context.Context, args listArgs) []*itemResolver {
	return u.r.loadItems(ctx, take(u.updates.Items, args.Limit, len(u.updates.Items)))
}

func (u *updatesResolver) ProfilesConnection(ctx context.Context, args listArgs) []*userResolver {
	return u.r.loadUsers(ctx, take(u.updates.Profiles, args.Limit, len(u.updates.Profiles)))
}
