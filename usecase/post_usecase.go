package usecase

import (
	"context"
	"time"

	"reddit-sync/domain/dto"
	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"
	"reddit-sync/infrastructure/cache"
	"reddit-sync/infrastructure/logger"
)

// dueBatchSize caps how many overdue posts one sweep pass picks up.
const dueBatchSize = 50

type IPostUsecase interface {
	Create(ctx context.Context, userID string, req *dto.CreatePostRequest) (*model.Post, error)
	List(ctx context.Context, userID, status string) ([]*model.Post, error)
	Get(ctx context.Context, userID string, id int64) (*model.Post, error)
	Update(ctx context.Context, userID string, id int64, req *dto.UpdatePostRequest) (*model.Post, error)
	Delete(ctx context.Context, userID string, id int64) error
	Publish(ctx context.Context, userID string, id int64, credentialID *int64) (*model.Post, error)
	Schedule(ctx context.Context, userID string, id int64, req *dto.SchedulePostRequest) (*model.Post, error)

	// ProcessDue publishes every scheduled post whose time has come. Run
	// periodically by the sweep loop.
	ProcessDue(ctx context.Context) error
}

type postUsecase struct {
	posts  repository.IPost
	engine IPublishEngine
	cache  *cache.PostCache
	now    func() time.Time
}

func NewPostUsecase(posts repository.IPost, engine IPublishEngine, postCache *cache.PostCache) IPostUsecase {
	return &postUsecase{posts: posts, engine: engine, cache: postCache, now: func() time.Time { return time.Now().UTC() }}
}

// Create persists the post first and only then attempts immediate publication,
// so a failed attempt still leaves a visible failed post behind.
func (u *postUsecase) Create(ctx context.Context, userID string, req *dto.CreatePostRequest) (*model.Post, error) {
	post := &model.Post{
		UserID:        userID,
		Title:         req.Title,
		Content:       req.Content,
		Subreddit:     req.Subreddit,
		CredentialID:  req.CredentialID,
		ScheduledTime: req.ScheduledTime,
		Status:        model.StatusPending,
	}
	// Omitting both post_now and scheduled_time means post now.
	if req.PostNow != nil {
		post.PostNow = *req.PostNow
	} else {
		post.PostNow = req.ScheduledTime == nil
	}

	post.Normalize()
	now := u.now()
	if err := post.Validate(now); err != nil {
		return nil, err
	}
	if post.ScheduledTime != nil {
		post.Status = model.StatusScheduled
	}
	if err := u.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	u.invalidate(ctx, userID)

	if post.PostNow {
		published, err := u.engine.Publish(ctx, post.ID, userID, nil)
		u.invalidate(ctx, userID)
		return published, err
	}
	return post, nil
}

func (u *postUsecase) List(ctx context.Context, userID, status string) ([]*model.Post, error) {
	if u.cache != nil {
		if posts, ok := u.cache.GetList(ctx, userID, status); ok {
			return posts, nil
		}
	}
	var posts []*model.Post
	var err error
	if status == "" {
		posts, err = u.posts.ListByUser(ctx, userID)
	} else {
		posts, err = u.posts.ListByStatus(ctx, userID, status)
	}
	if err != nil {
		return nil, err
	}
	if u.cache != nil {
		u.cache.SetList(ctx, userID, status, posts)
	}
	return posts, nil
}

func (u *postUsecase) Get(ctx context.Context, userID string, id int64) (*model.Post, error) {
	return u.posts.GetByID(ctx, id, userID)
}

// Update edits an unposted post in place. Posted posts are immutable.
func (u *postUsecase) Update(ctx context.Context, userID string, id int64, req *dto.UpdatePostRequest) (*model.Post, error) {
	post, err := u.posts.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	// Callers get the unmodified post back with the error, so responses can
	// embed the current state.
	if post.Status == model.StatusPosted {
		return post, model.ErrAlreadyPublished
	}
	if post.InFlight {
		return post, model.ErrAlreadyInFlight
	}

	post.Title = req.Title
	post.Content = req.Content
	post.Subreddit = req.Subreddit
	post.CredentialID = req.CredentialID
	post.ScheduledTime = req.ScheduledTime
	if req.PostNow != nil {
		post.PostNow = *req.PostNow
	} else {
		post.PostNow = req.ScheduledTime == nil
	}

	post.Normalize()
	if err := post.Validate(u.now()); err != nil {
		return nil, err
	}
	// Editing re-arms the lifecycle: a failed post goes back to pending, a
	// scheduled post follows its new scheduling fields.
	if post.ScheduledTime != nil {
		post.Status = model.StatusScheduled
	} else {
		post.Status = model.StatusPending
		post.ErrorMessage = nil
	}

	if err := u.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	u.invalidate(ctx, userID)
	return post, nil
}

func (u *postUsecase) Delete(ctx context.Context, userID string, id int64) error {
	if err := u.posts.Delete(ctx, id, userID); err != nil {
		return err
	}
	u.invalidate(ctx, userID)
	return nil
}

func (u *postUsecase) Publish(ctx context.Context, userID string, id int64, credentialID *int64) (*model.Post, error) {
	post, err := u.engine.Publish(ctx, id, userID, credentialID)
	u.invalidate(ctx, userID)
	return post, err
}

func (u *postUsecase) Schedule(ctx context.Context, userID string, id int64, req *dto.SchedulePostRequest) (*model.Post, error) {
	post, err := u.posts.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if post.InFlight {
		return post, model.ErrAlreadyInFlight
	}
	if err := post.Schedule(req.ScheduledTime, u.now()); err != nil {
		return post, err
	}
	if req.CredentialID != nil {
		post.CredentialID = req.CredentialID
	}
	post.ErrorMessage = nil
	if err := u.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	u.invalidate(ctx, userID)
	return post, nil
}

func (u *postUsecase) ProcessDue(ctx context.Context) error {
	due, err := u.posts.ListDue(ctx, u.now(), dueBatchSize)
	if err != nil {
		return err
	}
	for _, post := range due {
		if _, err := u.engine.Publish(ctx, post.ID, post.UserID, nil); err != nil {
			// Claim races with manual publishes are expected; real failures
			// are already persisted on the post itself.
			logger.GetLogger().WithFields(map[string]interface{}{
				"error":   err,
				"post_id": post.ID,
			}).Warn("due post publish attempt did not succeed")
		}
		u.invalidate(ctx, post.UserID)
	}
	return nil
}

func (u *postUsecase) invalidate(ctx context.Context, userID string) {
	if u.cache != nil {
		u.cache.Invalidate(ctx, userID)
	}
}
