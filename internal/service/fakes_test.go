package service

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/repository"
	"github.com/BhautikVekariya21/backend/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// world is the in-memory database shared by the fake repositories.
type world struct {
	mu        sync.Mutex
	users     map[primitive.ObjectID]*domain.User
	videos    map[primitive.ObjectID]*domain.Video
	comments  map[primitive.ObjectID]*domain.Comment
	tweets    map[primitive.ObjectID]*domain.Tweet
	playlists map[primitive.ObjectID]*domain.Playlist
	likes     []domain.Like
	subs      []domain.Subscription

	// cascadeErr is returned by cascade deletes instead of deleting.
	cascadeErr error
	// accountWrites counts UpdateAccount calls that reached the store.
	accountWrites int
}

func newWorld() *world {
	return &world{
		users:     map[primitive.ObjectID]*domain.User{},
		videos:    map[primitive.ObjectID]*domain.Video{},
		comments:  map[primitive.ObjectID]*domain.Comment{},
		tweets:    map[primitive.ObjectID]*domain.Tweet{},
		playlists: map[primitive.ObjectID]*domain.Playlist{},
	}
}

func (w *world) userRepo() *fakeUsers         { return &fakeUsers{w} }
func (w *world) videoRepo() *fakeVideos       { return &fakeVideos{w} }
func (w *world) commentRepo() *fakeComments   { return &fakeComments{w} }
func (w *world) likeRepo() *fakeLikes         { return &fakeLikes{w} }
func (w *world) playlistRepo() *fakePlaylists { return &fakePlaylists{w} }
func (w *world) subRepo() *fakeSubs           { return &fakeSubs{w} }
func (w *world) tweetRepo() *fakeTweets       { return &fakeTweets{w} }

func (w *world) addUser(username string) *domain.User {
	w.mu.Lock()
	defer w.mu.Unlock()
	u := &domain.User{
		ID:       primitive.NewObjectID(),
		Username: username,
		Email:    username + "@example.com",
		FullName: strings.ToUpper(username),
		Avatar:   domain.Media{URL: "https://cdn.test/" + username, StorageID: "image/" + username},
	}
	w.users[u.ID] = u
	return u
}

func (w *world) addVideo(owner primitive.ObjectID, published bool) *domain.Video {
	w.mu.Lock()
	defer w.mu.Unlock()
	v := &domain.Video{
		ID:          primitive.NewObjectID(),
		VideoFile:   domain.Media{URL: "https://cdn.test/v", StorageID: "video/v"},
		Thumbnail:   domain.Media{URL: "https://cdn.test/t", StorageID: "image/t"},
		Title:       "title",
		Description: "description",
		IsPublished: published,
		Owner:       owner,
		CreatedAt:   time.Now(),
	}
	w.videos[v.ID] = v
	return v
}

func (w *world) likeCount(match func(domain.Like) bool) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, l := range w.likes {
		if match(l) {
			n++
		}
	}
	return n
}

func likeOn(target domain.LikeTarget, id primitive.ObjectID) func(domain.Like) bool {
	return func(l domain.Like) bool {
		switch target {
		case domain.LikeTargetVideo:
			return l.Video != nil && *l.Video == id
		case domain.LikeTargetComment:
			return l.Comment != nil && *l.Comment == id
		case domain.LikeTargetTweet:
			return l.Tweet != nil && *l.Tweet == id
		}
		return false
	}
}

// --- Users ---

type fakeUsers struct{ w *world }

func (r *fakeUsers) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	for _, u := range r.w.users {
		if u.Username == user.Username || u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	c := *user
	r.w.users[user.ID] = &c
	return user.ID, nil
}

func (r *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	u, ok := r.w.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUsers) GetByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	for _, u := range r.w.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.GetByUsernameOrEmail(ctx, "", email)
}

func (r *fakeUsers) update(id primitive.ObjectID, fn func(u *domain.User) error) (*domain.User, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	u, ok := r.w.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := fn(u); err != nil {
		return nil, err
	}
	c := *u
	return &c, nil
}

func (r *fakeUsers) SetRefreshToken(_ context.Context, id primitive.ObjectID, token string) error {
	_, err := r.update(id, func(u *domain.User) error { u.RefreshToken = token; return nil })
	return err
}

func (r *fakeUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	_, err := r.update(id, func(u *domain.User) error { u.PasswordHash = hash; return nil })
	return err
}

func (r *fakeUsers) UpdateAccount(_ context.Context, id primitive.ObjectID, fullName, email string) (*domain.User, error) {
	return r.update(id, func(u *domain.User) error {
		r.w.accountWrites++
		for _, other := range r.w.users {
			if other.ID != id && other.Email == email {
				return repository.ErrDuplicate
			}
		}
		u.FullName, u.Email = fullName, email
		return nil
	})
}

func (r *fakeUsers) UpdateAvatar(_ context.Context, id primitive.ObjectID, avatar domain.Media) (*domain.User, error) {
	return r.update(id, func(u *domain.User) error { u.Avatar = avatar; return nil })
}

func (r *fakeUsers) UpdateCoverImage(_ context.Context, id primitive.ObjectID, cover domain.Media) (*domain.User, error) {
	return r.update(id, func(u *domain.User) error { u.CoverImage = &cover; return nil })
}

func (r *fakeUsers) AddToWatchHistory(_ context.Context, id, videoID primitive.ObjectID) error {
	_, err := r.update(id, func(u *domain.User) error {
		for _, v := range u.WatchHistory {
			if v == videoID {
				return nil
			}
		}
		u.WatchHistory = append(u.WatchHistory, videoID)
		return nil
	})
	return err
}

func (r *fakeUsers) ChannelProfile(_ context.Context, username string, viewer primitive.ObjectID) (*domain.ChannelProfile, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	for _, u := range r.w.users {
		if u.Username != username {
			continue
		}
		p := &domain.ChannelProfile{ID: u.ID, Username: u.Username, FullName: u.FullName}
		for _, s := range r.w.subs {
			if s.Channel == u.ID {
				p.SubscribersCount++
				if s.Subscriber == viewer {
					p.IsSubscribed = true
				}
			}
			if s.Subscriber == u.ID {
				p.ChannelsSubscribedToCount++
			}
		}
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUsers) WatchHistory(_ context.Context, id primitive.ObjectID) ([]domain.HistoryVideo, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	u, ok := r.w.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := []domain.HistoryVideo{}
	for _, vid := range u.WatchHistory {
		if v, ok := r.w.videos[vid]; ok {
			out = append(out, domain.HistoryVideo{ID: v.ID, Title: v.Title})
		}
	}
	return out, nil
}

// --- Videos ---

type fakeVideos struct{ w *world }

func (r *fakeVideos) Create(_ context.Context, video *domain.Video) (primitive.ObjectID, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	video.ID = primitive.NewObjectID()
	c := *video
	r.w.videos[video.ID] = &c
	return video.ID, nil
}

func (r *fakeVideos) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Video, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	v, ok := r.w.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *v
	return &c, nil
}

func (r *fakeVideos) Update(_ context.Context, id, owner primitive.ObjectID, upd repository.VideoUpdate) (*domain.Video, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	v, ok := r.w.videos[id]
	if !ok || v.Owner != owner {
		return nil, repository.ErrNotFound
	}
	v.Title, v.Description = upd.Title, upd.Description
	if upd.Thumbnail != nil {
		v.Thumbnail = *upd.Thumbnail
	}
	c := *v
	return &c, nil
}

func (r *fakeVideos) TogglePublish(_ context.Context, id, owner primitive.ObjectID) (*domain.Video, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	v, ok := r.w.videos[id]
	if !ok || v.Owner != owner {
		return nil, repository.ErrNotFound
	}
	v.IsPublished = !v.IsPublished
	c := *v
	return &c, nil
}

func (r *fakeVideos) IncrementViews(_ context.Context, id primitive.ObjectID) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	v, ok := r.w.videos[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.Views++
	return nil
}

func (r *fakeVideos) DeleteCascade(_ context.Context, id primitive.ObjectID) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if r.w.cascadeErr != nil {
		return r.w.cascadeErr
	}
	var kept []domain.Like
	removed := map[primitive.ObjectID]bool{}
	for cid, c := range r.w.comments {
		if c.Video == id {
			removed[cid] = true
			delete(r.w.comments, cid)
		}
	}
	for _, l := range r.w.likes {
		if (l.Video != nil && *l.Video == id) || (l.Comment != nil && removed[*l.Comment]) {
			continue
		}
		kept = append(kept, l)
	}
	r.w.likes = kept
	delete(r.w.videos, id)
	return nil
}

func (r *fakeVideos) Feed(_ context.Context, q repository.VideoFeedQuery) (domain.Page[domain.VideoCard], error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var cards []domain.VideoCard
	for _, v := range r.w.videos {
		if !v.IsPublished || (q.OwnerID != nil && v.Owner != *q.OwnerID) {
			continue
		}
		if q.Search != "" && !strings.Contains(v.Title, q.Search) {
			continue
		}
		cards = append(cards, domain.VideoCard{ID: v.ID, Title: v.Title, Owner: v.Owner, CreatedAt: v.CreatedAt})
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].CreatedAt.After(cards[j].CreatedAt) })
	total := int64(len(cards))
	start := int(q.Page.Skip())
	if start > len(cards) {
		start = len(cards)
	}
	end := start + int(q.Page.Limit)
	if end > len(cards) {
		end = len(cards)
	}
	return domain.NewPage(cards[start:end], total, q.Page), nil
}

func (r *fakeVideos) Detail(_ context.Context, id, viewer primitive.ObjectID) (*domain.VideoDetail, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	v, ok := r.w.videos[id]
	if !ok || (!v.IsPublished && v.Owner != viewer) {
		return nil, repository.ErrNotFound
	}
	d := &domain.VideoDetail{ID: v.ID, Title: v.Title, Views: v.Views, IsPublished: v.IsPublished}
	for _, l := range r.w.likes {
		if l.Video != nil && *l.Video == id {
			d.LikesCount++
			if l.LikedBy == viewer {
				d.IsLiked = true
			}
		}
	}
	return d, nil
}

// --- Comments ---

type fakeComments struct{ w *world }

func (r *fakeComments) Create(_ context.Context, comment *domain.Comment) (primitive.ObjectID, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	c := *comment
	r.w.comments[comment.ID] = &c
	return comment.ID, nil
}

func (r *fakeComments) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	c, ok := r.w.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeComments) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (*domain.Comment, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	c, ok := r.w.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Content = content
	cp := *c
	return &cp, nil
}

func (r *fakeComments) Delete(_ context.Context, id primitive.ObjectID) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if r.w.cascadeErr != nil {
		return r.w.cascadeErr
	}
	if _, ok := r.w.comments[id]; !ok {
		return repository.ErrNotFound
	}
	var kept []domain.Like
	for _, l := range r.w.likes {
		if l.Comment == nil || *l.Comment != id {
			kept = append(kept, l)
		}
	}
	r.w.likes = kept
	delete(r.w.comments, id)
	return nil
}

func (r *fakeComments) ListByVideo(_ context.Context, videoID, _ primitive.ObjectID, page domain.PageRequest) (domain.Page[domain.CommentView], error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var views []domain.CommentView
	for _, c := range r.w.comments {
		if c.Video == videoID {
			views = append(views, domain.CommentView{ID: c.ID, Content: c.Content, CreatedAt: c.CreatedAt})
		}
	}
	return domain.NewPage(views, int64(len(views)), page), nil
}

// --- Likes ---

type fakeLikes struct{ w *world }

func (r *fakeLikes) Toggle(_ context.Context, target domain.LikeTarget, targetID, likedBy primitive.ObjectID) (bool, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	match := likeOn(target, targetID)
	for i, l := range r.w.likes {
		if match(l) && l.LikedBy == likedBy {
			r.w.likes = append(r.w.likes[:i], r.w.likes[i+1:]...)
			return false, nil
		}
	}
	r.w.likes = append(r.w.likes, *domain.NewLike(target, targetID, likedBy))
	return true, nil
}

func (r *fakeLikes) LikedVideos(_ context.Context, likedBy primitive.ObjectID) ([]domain.LikedVideo, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	out := []domain.LikedVideo{}
	for _, l := range r.w.likes {
		if l.LikedBy != likedBy || l.Video == nil {
			continue
		}
		if v, ok := r.w.videos[*l.Video]; ok && v.IsPublished {
			out = append(out, domain.LikedVideo{LikedVideo: domain.VideoCard{ID: v.ID, Title: v.Title}})
		}
	}
	return out, nil
}

// --- Playlists ---

type fakePlaylists struct{ w *world }

func (r *fakePlaylists) Create(_ context.Context, p *domain.Playlist) (primitive.ObjectID, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.Videos = []primitive.ObjectID{}
	c := *p
	r.w.playlists[p.ID] = &c
	return p.ID, nil
}

func (r *fakePlaylists) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Playlist, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	p, ok := r.w.playlists[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	c.Videos = append([]primitive.ObjectID{}, p.Videos...)
	return &c, nil
}

func (r *fakePlaylists) mutate(id primitive.ObjectID, fn func(p *domain.Playlist)) (*domain.Playlist, error) {
	r.w.mu.Lock()
	p, ok := r.w.playlists[id]
	if ok {
		fn(p)
	}
	r.w.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(context.Background(), id)
}

func (r *fakePlaylists) Update(_ context.Context, id primitive.ObjectID, name, description string) (*domain.Playlist, error) {
	return r.mutate(id, func(p *domain.Playlist) { p.Name, p.Description = name, description })
}

func (r *fakePlaylists) Delete(_ context.Context, id primitive.ObjectID) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if _, ok := r.w.playlists[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.w.playlists, id)
	return nil
}

func (r *fakePlaylists) AddVideo(_ context.Context, id, videoID primitive.ObjectID) (*domain.Playlist, error) {
	return r.mutate(id, func(p *domain.Playlist) {
		for _, v := range p.Videos {
			if v == videoID {
				return
			}
		}
		p.Videos = append(p.Videos, videoID)
	})
}

func (r *fakePlaylists) RemoveVideo(_ context.Context, id, videoID primitive.ObjectID) (*domain.Playlist, error) {
	return r.mutate(id, func(p *domain.Playlist) {
		kept := p.Videos[:0]
		for _, v := range p.Videos {
			if v != videoID {
				kept = append(kept, v)
			}
		}
		p.Videos = kept
	})
}

func (r *fakePlaylists) Detail(_ context.Context, id primitive.ObjectID) (*domain.PlaylistDetail, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	p, ok := r.w.playlists[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	d := &domain.PlaylistDetail{ID: p.ID, Name: p.Name, Description: p.Description}
	for _, vid := range p.Videos {
		if v, ok := r.w.videos[vid]; ok && v.IsPublished {
			d.Videos = append(d.Videos, domain.PlaylistVideo{ID: v.ID, Title: v.Title, Views: v.Views})
			d.TotalVideos++
			d.TotalViews += v.Views
		}
	}
	return d, nil
}

func (r *fakePlaylists) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]domain.PlaylistSummary, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	out := []domain.PlaylistSummary{}
	for _, p := range r.w.playlists {
		if p.Owner == owner {
			out = append(out, domain.PlaylistSummary{ID: p.ID, Name: p.Name, TotalVideos: int64(len(p.Videos))})
		}
	}
	return out, nil
}

// --- Subscriptions ---

type fakeSubs struct{ w *world }

func (r *fakeSubs) Toggle(_ context.Context, subscriber, channel primitive.ObjectID) (bool, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	for i, s := range r.w.subs {
		if s.Subscriber == subscriber && s.Channel == channel {
			r.w.subs = append(r.w.subs[:i], r.w.subs[i+1:]...)
			return false, nil
		}
	}
	r.w.subs = append(r.w.subs, domain.Subscription{ID: primitive.NewObjectID(), Subscriber: subscriber, Channel: channel})
	return true, nil
}

func (r *fakeSubs) Subscribers(_ context.Context, channel primitive.ObjectID) ([]domain.SubscriberView, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	out := []domain.SubscriberView{}
	for _, s := range r.w.subs {
		if s.Channel == channel {
			var v domain.SubscriberView
			v.Subscriber.ID = s.Subscriber
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeSubs) SubscribedChannels(_ context.Context, subscriber primitive.ObjectID) ([]domain.SubscribedChannelView, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	out := []domain.SubscribedChannelView{}
	for _, s := range r.w.subs {
		if s.Subscriber == subscriber {
			var v domain.SubscribedChannelView
			v.SubscribedChannel.ID = s.Channel
			out = append(out, v)
		}
	}
	return out, nil
}

// --- Tweets ---

type fakeTweets struct{ w *world }

func (r *fakeTweets) Create(_ context.Context, tweet *domain.Tweet) (primitive.ObjectID, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	tweet.ID = primitive.NewObjectID()
	c := *tweet
	r.w.tweets[tweet.ID] = &c
	return tweet.ID, nil
}

func (r *fakeTweets) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Tweet, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	t, ok := r.w.tweets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (r *fakeTweets) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (*domain.Tweet, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	t, ok := r.w.tweets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Content = content
	c := *t
	return &c, nil
}

func (r *fakeTweets) Delete(_ context.Context, id primitive.ObjectID) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if _, ok := r.w.tweets[id]; !ok {
		return repository.ErrNotFound
	}
	var kept []domain.Like
	for _, l := range r.w.likes {
		if l.Tweet == nil || *l.Tweet != id {
			kept = append(kept, l)
		}
	}
	r.w.likes = kept
	delete(r.w.tweets, id)
	return nil
}

func (r *fakeTweets) ListByOwner(_ context.Context, owner, _ primitive.ObjectID) ([]domain.TweetView, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	out := []domain.TweetView{}
	for _, t := range r.w.tweets {
		if t.Owner == owner {
			out = append(out, domain.TweetView{ID: t.ID, Content: t.Content})
		}
	}
	return out, nil
}

// --- Media ---

// fakeMedia uploads by naming the asset after the file, and fails for any
// path listed in fail.
type fakeMedia struct {
	mu       sync.Mutex
	fail     map[string]bool
	uploaded []string
	deleted  []string
}

func newFakeMedia() *fakeMedia { return &fakeMedia{fail: map[string]bool{}} }

func (m *fakeMedia) Upload(_ context.Context, localPath string, kind domain.MediaKind) (*storage.Asset, error) {
	if localPath == "" {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[localPath] {
		return nil, errors.New("upload refused")
	}
	id := string(kind) + "/" + filepath.Base(localPath)
	m.uploaded = append(m.uploaded, id)
	return &storage.Asset{URL: "https://cdn.test/" + id, StorageID: id}, nil
}

func (m *fakeMedia) Delete(_ context.Context, storageID string, _ domain.MediaKind) {
	if storageID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, storageID)
}

// --- Cache ---

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]any
	gets    int
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string]any{}} }

func (c *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	*(dst.(*domain.ChannelStats)) = v.(domain.ChannelStats)
	return true, nil
}

func (c *fakeCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = *(v.(*domain.ChannelStats))
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

type fakeDashboard struct {
	calls int
	stats domain.ChannelStats
}

func (d *fakeDashboard) ChannelStats(context.Context, primitive.ObjectID) (*domain.ChannelStats, error) {
	d.calls++
	s := d.stats
	return &s, nil
}

func (d *fakeDashboard) ChannelVideos(context.Context, primitive.ObjectID) ([]domain.ChannelVideo, error) {
	return []domain.ChannelVideo{}, nil
}
