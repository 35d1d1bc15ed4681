package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/learnloop/learnloop-cli/internal/models"
	"github.com/learnloop/learnloop-cli/internal/votes"
)

func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: open <postID>")
		return nil
	}
	postID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: open <postID>")
		return nil
	}

	detail, err := a.client.Post(ctx, postID)
	if err != nil {
		a.printAPIError(err)
		return err
	}

	a.dropListed()
	a.current = detail

	// The post itself fetches its own status (cache-aware); the comment
	// thread resolves as one batch.
	postTracker := votes.NewTracker(a.client, a.cache, a.session, a.log, votes.Options{
		Target:       votes.Target{Type: models.TargetPost, ID: detail.ID},
		InitialCount: detail.VoteCount,
	})
	postTracker.EnsureStatus(ctx)
	a.listed = append(a.listed, listedItem{tracker: postTracker, label: detail.Title})

	seeds := make([]votes.Seed, 0, len(detail.Comments))
	for _, c := range detail.Comments {
		seeds = append(seeds, votes.Seed{
			Target:        votes.Target{Type: models.TargetComment, ID: c.ID},
			FallbackCount: c.VoteCount,
		})
	}
	statuses := a.prefetch.Fetch(ctx, seeds)

	count, vote := postTracker.Snapshot()
	fmt.Fprintf(a.out, "[1] %s %s by %s (%s)\n\n%s\n", renderVotes(count, vote),
		detail.Title, detail.Author.Username, detail.Topic.Name, detail.Content)

	if len(detail.Comments) > 0 {
		fmt.Fprintf(a.out, "\n%d comments:\n", len(detail.Comments))
	}
	for _, c := range detail.Comments {
		target := votes.Target{Type: models.TargetComment, ID: c.ID}
		t := votes.NewTracker(a.client, a.cache, a.session, a.log, votes.Options{
			Target:           target,
			InitialCount:     c.VoteCount,
			DisableSelfFetch: true,
		})
		if st, ok := statuses[target]; ok {
			t.Apply(st)
		}
		a.listed = append(a.listed, listedItem{tracker: t, label: "comment by " + c.Author.Username})

		count, vote := t.Snapshot()
		fmt.Fprintf(a.out, "[%d] %s %s: %s\n", len(a.listed), renderVotes(count, vote), c.Author.Username, c.Content)
	}
	return nil
}

func (a *App) Vote(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: vote <n>")
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(a.listed) {
		fmt.Fprintln(a.out, "No such item; list something first with 'feed' or 'open'")
		return nil
	}

	it := a.listed[n-1]
	if err := it.tracker.Toggle(ctx); err != nil {
		if errors.Is(err, votes.ErrVoteInFlight) {
			fmt.Fprintln(a.out, "Previous vote still in flight, try again in a moment")
			return nil
		}
		a.printAPIError(err)
		return err
	}

	count, vote := it.tracker.Snapshot()
	fmt.Fprintf(a.out, "[%d] %s %s\n", n, renderVotes(count, vote), it.label)
	return nil
}

func (a *App) Write(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	topicRaw, err := GetSimpleText(a.reader, "Enter topic id", a.out)
	if err != nil {
		return err
	}
	topicID, err := strconv.ParseInt(topicRaw, 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Topic id must be a number")
		return nil
	}
	content, err := GetMultiline(a.reader, "Enter content", a.out)
	if err != nil {
		return err
	}

	post, err := a.client.CreatePost(ctx, models.CreatePostRequest{
		Title:   title,
		Content: content,
		TopicID: topicID,
	})
	if err != nil {
		a.printAPIError(err)
		return err
	}

	fmt.Fprintf(a.out, "Posted! Open it with 'open %d'\n", post.ID)
	return nil
}

func (a *App) Comment(ctx context.Context) error {
	if a.current == nil {
		fmt.Fprintln(a.out, "Open a post first with 'open <postID>'")
		return nil
	}

	content, err := GetMultiline(a.reader, "Enter comment", a.out)
	if err != nil {
		return err
	}
	if content == "" {
		fmt.Fprintln(a.out, "Comment is empty, nothing sent")
		return nil
	}

	c, err := a.client.CreateComment(ctx, models.CreateCommentRequest{
		PostID:  a.current.ID,
		Content: content,
	})
	if err != nil {
		a.printAPIError(err)
		return err
	}

	fmt.Fprintf(a.out, "Comment #%d added\n", c.ID)

	// Reload the thread so the new comment becomes votable.
	return a.Open(ctx, []string{strconv.FormatInt(a.current.ID, 10)})
}
