package graph

import (
	"context"

	"github.com/arlberg/hn-graphql/pkg/hn"
)

// itemResolver resolves the Item interface. The concrete fields live on
// the variant resolvers behind the To methods.
type itemResolver struct {
	r    *Resolver
	item hn.Item
}

func (i *itemResolver) ID() int32 { return int32(i.item.ItemID()) }
func (i *itemResolver) Title() *string { return i.item.ItemTitle() }
func (i *itemResolver) Author() *string { return i.item.ItemAuthor() }

func (i *itemResolver) ToStory() (*storyResolver, bool) {
	story, ok := i.item.(*hn.Story)
	if !ok {
		return nil, false
	}
	return &storyResolver{r: i.r, story: story}, true
}

func (i *itemResolver) ToComment() (*commentResolver, bool) {
	comment, ok := i.item.(*hn.Comment)
	if !ok {
		return nil, false
	}
	return &commentResolver{r: i.r, comment: comment}, true
}

func (i *itemResolver) ToJob() (*jobResolver, bool) {
	job, ok := i.item.(*hn.Job)
	if !ok {
		return nil, false
	}
	return &jobResolver{job: job}, true
}

func (i *itemResolver) ToPoll() (*pollResolver, bool) {
	poll, ok := i.item.(*hn.Poll)
	if !ok {
		return nil, false
	}
	return &pollResolver{r: i.r, poll: poll}, true
}

func (i *itemResolver) ToPollOpt() (*pollOptResolver, bool) {
	opt, ok := i.item.(*hn.PollOpt)
	if !ok {
		return nil, false
	}
	return &pollOptResolver{r: i.r, opt: opt}, true
}

type storyResolver struct {
	r     *Resolver
	story *hn.Story
}

func (s *storyResolver) ID() int32 { return int32(s.story.ID) }
func (s *storyResolver) Title() *string { return &s.story.Title }
func (s *storyResolver) Author() *string { return &s.story.By }
func (s *storyResolver) By() string { return s.story.By }
func (s *storyResolver) Descendants() int32 { return int32(s.story.Descendants) }
func (s *storyResolver) Score() int32 { return int32(s.story.Score) }
func (s *storyResolver) Time() int32 { return int32(s.story.Time) }
func (s *storyResolver) URL() *string { return s.story.URL }
func (s *storyResolver) Text() *string { return s.story.Text }
func (s *storyResolver) Kids() *[]int32 { return kidIDs(s.story.Kids) }

func (s *storyResolver) KidsConnection(ctx context.Context, args listArgs) []*itemResolver {
	return s.r.loadItems(ctx, take(s.story.Kids, args.Limit, len(s.story.Kids)))
}

func (s *storyResolver) ByUser(ctx context.Context) *userResolver {
	return s.r.loadUser(ctx, s.story.By)
}

type commentResolver struct {
	r       *Resolver
	comment *hn.Comment
}

func (c *commentResolver) ID() int32 { return int32(c.comment.ID) }
func (c *commentResolver) Title() *string { return nil }
func (c *commentResolver) Author() *string { return &c.comment.By }
func (c *commentResolver) By() string { return c.comment.By }
func (c *commentResolver) Parent() int32 { return int32(c.comment.Parent) }
func (c *commentResolver) Text() string { return c.comment.Text }
func (c *commentResolver) Time() int32 { return int32(c.comment.Time) }
func (c *commentResolver) Kids() *[]int32 { return kidIDs(c.comment.Kids) }

func (c *commentResolver) KidsConnection(ctx context.Context, args listArgs) []*itemResolver {
	return c.r.loadItems(ctx, take(c.comment.Kids, args.Limit, len(c.comment.Kids)))
}

func (c *commentResolver) ByUser(ctx context.Context) *userResolver {
	return c.r.loadUser(ctx, c.comment.By)
}

type jobResolver struct {
	job *hn.Job
}

func (j *jobResolver) ID() int32 { return int32(j.job.ID) }
func (j *jobResolver) Title() *string { return &j.job.Title }
func (j *jobResolver) Author() *string { return nil }
func (j *jobResolver) Score() int32 { return int32(j.job.Score) }
func (j *jobResolver) Text() *string { return j.job.Text }
func (j *jobResolver) Time() int32 { return int32(j.job.Time) }
func (j *jobResolver) URL() *string { return j.job.URL }

type pollResolver struct {
	r    *Resolver
	poll *hn.Poll
}

func (p *pollResolver) ID() int32 { return int32(p.poll.ID) }
func (p *pollResolver) Title() *string { return &p.poll.Title }
func (p *pollResolver) Author() *string { return &p.poll.By }
func (p *pollResolver) By() string { return p.poll.By }
func (p *pollResolver) Descendants() int32 { return int32(p.poll.Descendants) }
func (p *pollResolver) Score() int32 { return int32(p.poll.Score) }
func (p *pollResolver) Text() *string { return p.poll.Text }
func (p *pollResolver) Time() int32 { return int32(p.poll.Time) }
func (p *pollResolver) Kids() *[]int32 { return kidIDs(p.poll.Kids) }
func (p *pollResolver) Parts() *[]int32 { return kidIDs(p.poll.Parts) }

func (p *pollResolver) KidsConnection(ctx context.Context, args listArgs) []*itemResolver {
	return p.r.loadItems(ctx, take(p.poll.Kids, args.Limit, len(p.poll.Kids)))
}

func (p *pollResolver) PartsConnection(ctx context.Context, args listArgs) []*itemResolver {
	return p.r.loadItems(ctx, take(p.poll.Parts, args.Limit, len(p.poll.Parts)))
}

func (p *pollResolver) ByUser(ctx context.Context) *userResolver {
	return p.r.loadUser(ctx, p.poll.By)
}

type pollOptResolver struct {
	r   *Resolver
	opt *hn.PollOpt
}

func (p *pollOptResolver) ID() int32 { return int32(p.opt.ID) }
func (p *pollOptResolver) Title() *string { return nil }
func (p *pollOptResolver) Author() *string { return &p.opt.By }
func (p *pollOptResolver) By() string { return p.opt.By }
func (p *pollOptResolver) Poll() int32 { return int32(p.opt.Poll) }
func (p *pollOptResolver) Score() int32 { return int32(p.opt.Score) }
func (p *pollOptResolver) Text() *string { return p.opt.Text }
func (p *pollOptResolver) Time() int32 { return int32(p.opt.Time) }

func (p *pollOptResolver) ByUser(ctx context.Context) *userResolver {
	return p.r.loadUser(ctx, p.opt.By)
}

// int32IDs converts upstream ids for the GraphQL Int type, which is
// 32-bit. The result is never nil so non-null list fields render [].
func int32IDs(ids []uint32) []int32 {
	out := make([]int32, len(ids))
	for i, id := range ids {
		out[i] = int32(id)
	}
	return out
}

// kidIDs converts an optional id list, keeping absence as null.
func kidIDs(ids []uint32) *[]int32 {
	if ids == nil {
		return nil
	}
	out := int32IDs(ids)
	return &out
}
