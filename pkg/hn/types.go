package hn

import (
	"encoding/json"
	"fmt"
)

// Item type discriminators as sent by the upstream `type` field.
const (
	TypeStory   = "story"
	TypeComment = "comment"
	TypeJob     = "job"
	TypePoll    = "poll"
	TypePollOpt = "pollopt"
)

// Item is one entry in the shared item id space. The concrete type is one
// of *Story, *Comment, *Job, *Poll or *PollOpt, discriminated by the
// upstream `type` field. The accessors cover the fields every variant can
// answer; title and author are nil for variants that do not carry them.
type Item interface {
	// ItemID returns the item's unique id.
	ItemID() uint32

	// ItemTitle returns the item's title, or nil for comments and poll options.
	ItemTitle() *string

	// ItemAuthor returns the author's username, or nil for jobs.
	ItemAuthor() *string

	// ItemType returns the upstream type discriminator.
	ItemType() string
}

// Story is a submitted link or text post.
type Story struct {
	ID          uint32   `json:"id"`
	Descendants uint32   `json:"descendants"`
	By          string   `json:"by"`
	Kids        []uint32 `json:"kids,omitempty"`
	Score       uint32   `json:"score"`
	Title       string   `json:"title"`
	URL         *string  `json:"url,omitempty"`
	Text        *string  `json:"text,omitempty"`
	Time        uint64   `json:"time"`
}

func (s *Story) ItemID() uint32 { return s.ID }
func (s *Story) ItemTitle() *string { return &s.Title }
func (s *Story) ItemAuthor() *string { return &s.By }
func (s *Story) ItemType() string { return TypeStory }

// Comment is a reply to a story, poll or another comment.
type Comment struct {
	ID     uint32   `json:"id"`
	By     string   `json:"by"`
	Kids   []uint32 `json:"kids,omitempty"`
	Parent uint32   `json:"parent"`
	Text   string   `json:"text"`
	Time   uint64   `json:"time"`
}

func (c *Comment) ItemID() uint32 { return c.ID }
func (c *Comment) ItemTitle() *string { return nil }
func (c *Comment) ItemAuthor() *string { return &c.By }
func (c *Comment) ItemType() string { return TypeComment }

// Job is a job posting. Jobs carry no author.
type Job struct {
	ID    uint32  `json:"id"`
	Score uint32  `json:"score"`
	Text  *string `json:"text,omitempty"`
	Time  uint64  `json:"time"`
	Title string  `json:"title"`
	URL   *string `json:"url,omitempty"`
}

func (j *Job) ItemID() uint32 { return j.ID }
func (j *Job) ItemTitle() *string { return &j.Title }
func (j *Job) ItemAuthor() *string { return nil }
func (j *Job) ItemType() string { return TypeJob }

// Poll is a poll; its options are separate PollOpt items listed in Parts.
type Poll struct {
	ID          uint32   `json:"id"`
	By          string   `json:"by"`
	Descendants uint32   `json:"descendants"`
	Kids        []uint32 `json:"kids,omitempty"`
	Parts       []uint32 `json:"parts,omitempty"`
	Score       uint32   `json:"score"`
	Title       string   `json:"title"`
	Text        *string  `json:"text,omitempty"`
	Time        uint64   `json:"time"`
}

func (p *Poll) ItemID() uint32 { return p.ID }
func (p *Poll) ItemTitle() *string { return &p.Title }
func (p *Poll) ItemAuthor() *string { return &p.By }
func (p *Poll) ItemType() string { return TypePoll }

// PollOpt is a single option belonging to a poll.
type PollOpt struct {
	ID    uint32  `json:"id"`
	By    string  `json:"by"`
	Poll  uint32  `json:"poll"`
	Score uint32  `json:"score"`
	Text  *string `json:"text,omitempty"`
	Time  uint64  `json:"time"`
}

func (p *PollOpt) ItemID() uint32 { return p.ID }
func (p *PollOpt) ItemTitle() *string { return nil }
func (p *PollOpt) ItemAuthor() *string { return &p.By }
func (p *PollOpt) ItemType() string { return TypePollOpt }

// User is a user profile. Users are keyed by username, not by item id.
type User struct {
	ID        string   `json:"id"`
	Created   uint64   `json:"created"`
	Karma     uint32   `json:"karma"`
	Delay     *uint32  `json:"delay,omitempty"`
	About     *string  `json:"about,omitempty"`
	Submitted []uint32 `json:"submitted,omitempty"`
}

// Updates lists recently changed items and user profiles.
type Updates struct {
	Items    []uint32 `json:"items"`
	Profiles []string `json:"profiles"`
}

// DecodeItem decodes an item body into its concrete variant based on the
// `type` discriminator. The caller is expected to have handled JSON null
// bodies already; DecodeItem treats them as a decode failure.
func DecodeItem(data []byte) (Item, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode item envelope: %w", err)
	}

	switch head.Type {
	case TypeStory:
		var s Story
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode story: %w", err)
		}
		return &s, nil
	case TypeComment:
		var c Comment
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decode comment: %w", err)
		}
		return &c, nil
	case TypeJob:
		var j Job
		if err := json.Unmarshal(data, &j); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		return &j, nil
	case TypePoll:
		var p Poll
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode poll: %w", err)
		}
		return &p, nil
	case TypePollOpt:
		var p PollOpt
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode pollopt: %w", err)
		}
		return &p, nil
	default:
		return nil, fmt.Errorf("unknown item type %q", head.Type)
	}
}
