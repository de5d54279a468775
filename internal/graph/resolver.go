// Package graph implements the GraphQL schema over the Hacker News API.
//
// Keyed lookups (items, users) never resolve through the client directly:
// they go through batch loaders so that sibling fields of one query
// collapse into a handful of upstream requests. A key whose fetch fails
// is dropped and renders as null, it never fails the surrounding query.
package graph

import (
	"context"
	"time"

	"github.com/arlberg/hn-graphql/pkg/hn"
	"github.com/arlberg/hn-graphql/pkg/loader"
)

// defaultListLimit applies to the list queries (top, newest, ...) when no
// limit argument is given.
const defaultListLimit = 10

// Config holds loader tuning for the resolver.
type Config struct {
	// Wait is the batch window duration for both loaders.
	Wait time.Duration

	// MaxBatch dispatches a window early once it holds this many distinct
	// keys, 0 = no limit.
	MaxBatch int
}

// Resolver is the root query resolver.
type Resolver struct {
	client *hn.Client
	items  *loader.Loader[uint32, hn.Item]
	users  *loader.Loader[string, *hn.User]
}

// New creates the root resolver with its item and user loaders.
func New(client *hn.Client, cfg Config) (*Resolver, error) {
	items, err := loader.New(loader.Config[uint32, hn.Item]{
		Name:     "item",
		Wait:     cfg.Wait,
		MaxBatch: cfg.MaxBatch,
		Fetch: loader.PerKey(func(ctx context.Context, id uint32) (hn.Item, bool, error) {
			item, err := client.Item(ctx, id)
			if err != nil {
				return nil, false, err
			}
			return item, item != nil, nil
		}),
	})
	if err != nil {
		return nil, err
	}

	users, err := loader.New(loader.Config[string, *hn.User]{
		Name:     "user",
		Wait:     cfg.Wait,
		MaxBatch: cfg.MaxBatch,
		Fetch: loader.PerKey(func(ctx context.Context, username string) (*hn.User, bool, error) {
			user, err := client.User(ctx, username)
			if err != nil {
				return nil, false, err
			}
			return user, user != nil, nil
		}),
	})
	if err != nil {
		return nil, err
	}

	return &Resolver{
		client: client,
		items:  items,
		users:  users,
	}, nil
}

type listArgs struct {
	Limit *int32
}

// Top returns the current front page stories in rank order.
func (r *Resolver) Top(ctx context.Context, args listArgs) ([]*itemResolver, error) {
	ids, err := r.client.TopStories(ctx)
	if err != nil {
		return nil, err
	}
	return r.loadItems(ctx, take(ids, args.Limit, defaultListLimit)), nil
}

// Newest returns the newest stories.
func (r *Resolver) Newest(ctx context.Context, args listArgs) ([]*itemResolver, error) {
	ids, err := r.client.NewStories(ctx)
	if err != nil {
		return nil, err
	}
	return r.loadItems(ctx, take(ids, args.Limit, defaultListLimit)), nil
}

// Best returns the best stories.
func (r *Resolver) Best(ctx context.Context, args listArgs) ([]*itemResolver, error) {
	ids, err := r.client.BestStories(ctx)
	if err != nil {
		return nil, err
	}
	return r.loadItems(ctx, take(ids, args.Limit, defaultListLimit)), nil
}

// Ask returns the latest Ask HN stories.
func (r *Resolver) Ask(ctx context.Context, args listArgs) ([]*itemResolver, error) {
	ids, err := r.client.AskStories(ctx)
	if err != nil {
		return nil, err
	}
	return r.loadItems(ctx, take(ids, args.Limit, defaultListLimit)), nil
}

// Show returns the latest Show HN stories.
func (r *Resolver) Show(ctx context.Context, args listArgs) ([]*itemResolver, error) {
	ids, err := r.client.ShowStories(ctx)
	if err != nil {
		return nil, err
	}
	return r.loadItems(ctx, take(ids, args.Limit, defaultListLimit)), nil
}

// Jobs returns the latest job postings.
func (r *Resolver) Jobs(ctx context.Context, args listArgs) ([]*itemResolver, error) {
	ids, err := r.client.JobStories(ctx)
	if err != nil {
		return nil, err
	}
	return r.loadItems(ctx, take(ids, args.Limit, defaultListLimit)), nil
}

// Item returns a single item, or null when the id is unknown or its fetch
// failed.
func (r *Resolver) Item(ctx context.Context, args struct{ ID int32 }) *itemResolver {
	if args.ID < 1 {
		return nil
	}

	item, ok := r.items.Load(ctx, uint32(args.ID))
	if !ok {
		return nil
	}
	return &itemResolver{r: r, item: item}
}

// User returns a single user profile, or null when the username is
// unknown or its fetch failed.
func (r *Resolver) User(ctx context.Context, args struct{ Username string }) *userResolver {
	return r.loadUser(ctx, args.Username)
}

// MaxItem returns the id of the newest item.
func (r *Resolver) MaxItem(ctx context.Context) (int32, error) {
	id, err := r.client.MaxItem(ctx)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

// Updates returns the recently changed items and profiles.
func (r *Resolver) Updates(ctx context.Context) (*updatesResolver, error) {
	updates, err := r.client.Updates(ctx)
	if err != nil {
		return nil, err
	}
	return &updatesResolver{r: r, updates: updates}, nil
}

// loadItems resolves ids through the item loader in one batch window.
// Misses are compacted away; the survivors keep their id order.
func (r *Resolver) loadItems(ctx context.Context, ids []uint32) []*itemResolver {
	values, oks := r.items.LoadMany(ctx, ids)

	resolvers := make([]*itemResolver, 0, len(ids))
	for i, item := range values {
		if !oks[i] {
			continue
		}
		resolvers = append(resolvers, &itemResolver{r: r, item: item})
	}
	return resolvers
}

// loadUser resolves one username through the user loader.
func (r *Resolver) loadUser(ctx context.Context, username string) *userResolver {
	user, ok := r.users.Load(ctx, username)
	if !ok {
		return nil
	}
	return &userResolver{r: r, user: user}
}

// loadUsers resolves usernames through the user loader in one batch
// window, compacting misses like loadItems does.
func (r *Resolver) loadUsers(ctx context.Context, usernames []string) []*userResolver {
	values, oks := r.users.LoadMany(ctx, usernames)

	resolvers := make([]*userResolver, 0, len(usernames))
	for i, user := range values {
		if !oks[i] {
			continue
		}
		resolvers = append(resolvers, &userResolver{r: r, user: user})
	}
	return resolvers
}

// take caps keys at the given limit. A nil limit falls back to fallback,
// a negative limit yields nothing.
func take[K any](keys []K, limit *int32, fallback int) []K {
	n := fallback
	if limit != nil {
		n = int(*limit)
	}
	if n < 0 {
		n = 0
	}
	if n > len(keys) {
		n = len(keys)
	}
	return keys[:n]
}
