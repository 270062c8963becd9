package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/gommon/log"

	"medconnect/internal/models"
	"medconnect/internal/views"
)

func hasID(id string) func(models.VideoPost) bool {
	return func(p models.VideoPost) bool { return p.ID == id }
}

func runFeed(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("feed")
	mine := fs.Bool("mine", false, "only my videos")
	pages := fs.Int("pages", 1, "number of `pages` to load")
	if err := fs.Parse(args); err != nil {
		return err
	}
	author := ""
	if *mine {
		author = a.session.UserID
	}
	feed := views.NewFeed(a.client, a.session, a.notifier, author)
	for i := 0; i < *pages && !feed.Done(); i++ {
		if _, err := feed.LoadMore(ctx); err != nil {
			return err
		}
	}
	printPosts(a.out, feed.Items(), feed)
	if feed.Done() {
		fmt.Fprintln(a.out, "No more videos.")
	}
	return nil
}

// loadPost pages through the feed until post id is loaded.
func loadPost(ctx context.Context, feed *views.Feed, id string) error {
	for {
		if _, ok := feed.Find(hasID(id)); ok {
			return nil
		}
		if feed.Done() {
			return views.ErrNotFound
		}
		if _, err := feed.LoadMore(ctx); err != nil {
			return err
		}
	}
}

func openFeed(ctx context.Context, a *app, postID string) (*views.Feed, error) {
	feed := views.NewFeed(a.client, a.session, a.notifier, "")
	if err := loadPost(ctx, feed, postID); err != nil {
		return nil, err
	}
	return feed, nil
}

func runPost(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("post")
	video := fs.String("video", "", "video `file`")
	description := fs.String("description", "", "post description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	feed := views.NewFeed(a.client, a.session, a.notifier, a.session.UserID)
	if *video == "" {
		_, err := feed.Publish(ctx, *description, "", nil)
		return err
	}
	f, err := os.Open(*video)
	if err != nil {
		a.notifier.Error("Could not open the video file")
		return err
	}
	defer f.Close()
	p, err := feed.Publish(ctx, *description, filepath.Base(*video), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Posted %s\n", p.ID)
	return nil
}

func runEditPost(ctx context.Context, a *app, args []string) error {
	if len(args) < 2 {
		return local(fmt.Errorf("%w: usage: medconnect %s", errUsage, commands["editpost"].usage))
	}
	feed, err := openFeed(ctx, a, args[0])
	if err != nil {
		return local(err)
	}
	return local(feed.Edit(ctx, args[0], strings.Join(args[1:], " ")))
}

func runDeletePost(ctx context.Context, a *app, args []string) error {
	id, err := oneArg("delpost", args)
	if err != nil {
		return local(err)
	}
	feed, err := openFeed(ctx, a, id)
	if err != nil {
		return local(err)
	}
	return local(feed.Delete(ctx, id))
}

func runLike(ctx context.Context, a *app, args []string) error {
	id, err := oneArg("like", args)
	if err != nil {
		return local(err)
	}
	feed, err := openFeed(ctx, a, id)
	if err != nil {
		return local(err)
	}
	if err := feed.Like(ctx, id); err != nil {
		return err
	}
	p, _ := feed.Find(hasID(id))
	state := "Unliked"
	if feed.LikedByMe(p) {
		state = "Liked"
	}
	fmt.Fprintf(a.out, "%s (%d likes)\n", state, p.LikesCount)
	return nil
}

func runComments(ctx context.Context, a *app, args []string) error {
	id, err := oneArg("comments", args)
	if err != nil {
		return local(err)
	}
	feed := views.NewFeed(a.client, a.session, a.notifier, "")
	comments, err := feed.Comments(ctx, id)
	if err != nil {
		return err
	}
	printComments(a.out, comments)
	return nil
}

func runComment(ctx context.Context, a *app, args []string) error {
	if len(args) < 2 {
		return local(fmt.Errorf("%w: usage: medconnect %s", errUsage, commands["comment"].usage))
	}
	feed := views.NewFeed(a.client, a.session, a.notifier, "")
	if err := feed.AddComment(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
		if errors.Is(err, views.ErrInvalidForm) {
			log.Error("Comment text is empty")
		}
		return local(err)
	}
	printComments(a.out, feed.CommentsOf(args[0]))
	return nil
}

func runDeleteComment(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return local(fmt.Errorf("%w: usage: medconnect %s", errUsage, commands["delcomment"].usage))
	}
	postID, commentID := args[0], args[1]
	feed, err := openFeed(ctx, a, postID)
	if err != nil {
		return local(err)
	}
	if _, err := feed.Comments(ctx, postID); err != nil {
		return err
	}
	return local(feed.DeleteComment(ctx, postID, commentID))
}

func openProfile(ctx context.Context, a *app, name string, args []string) (*views.ProfileView, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, fmt.Errorf("%w: usage: medconnect %s", errUsage, commands[name].usage)
	}
	v := views.NewProfileView(a.client, a.session, a.notifier, args[0])
	if err := v.Load(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

func runProfile(ctx context.Context, a *app, args []string) error {
	v, err := openProfile(ctx, a, "profile", args)
	if err != nil {
		return local(err)
	}
	printProfile(a.out, v)
	return nil
}

func runFollow(ctx context.Context, a *app, args []string) error {
	v, err := openProfile(ctx, a, "follow", args)
	if err != nil {
		return local(err)
	}
	return local(v.Follow(ctx))
}

func runUnfollow(ctx context.Context, a *app, args []string) error {
	v, err := openProfile(ctx, a, "unfollow", args)
	if err != nil {
		return local(err)
	}
	return local(v.Unfollow(ctx))
}

func runReview(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return local(fmt.Errorf("%w: usage: medconnect %s", errUsage, commands["review"].usage))
	}
	fs := newFlagSet("review")
	rating := fs.Int("rating", 0, "rating from 1 to 5")
	text := fs.String("text", "", "review `text`")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	v, err := openProfile(ctx, a, "review", args[:1])
	if err != nil {
		return local(err)
	}
	return local(v.SubmitReview(ctx, *rating, *text))
}

func runDeleteReview(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return local(fmt.Errorf("%w: usage: medconnect %s", errUsage, commands["delreview"].usage))
	}
	v, err := openProfile(ctx, a, "delreview", args[:1])
	if err != nil {
		return local(err)
	}
	return local(v.DeleteReview(ctx, args[1]))
}
