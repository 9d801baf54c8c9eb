package service

import (
	"context"
	"io"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/util"
)

type SessionServiceInterface interface {
	SignUp(ctx context.Context, req *entity.SignUpRequest) (*entity.AuthResponse, error)
	SignInWithPassword(ctx context.Context, req *entity.SignInRequest) (*entity.AuthResponse, error)
	RefreshSession(ctx context.Context, refreshToken string) (*entity.AuthResponse, error)
	ValidateToken(ctx context.Context, accessToken string) (*util.SessionClaims, error)
	Resolve(ctx context.Context, userID string) (*entity.Session, error)
	GetSession(ctx context.Context, userID string) (*entity.Session, error)
	GetUser(ctx context.Context, userID string) (*entity.User, error)
	UpdateUser(ctx context.Context, userID string, req *entity.UpdateUserRequest) (*entity.User, error)
	SignOut(ctx context.Context, accessToken string) error
	Subscribe(listener AuthListener) func()
}

type RelationshipServiceInterface interface {
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	FollowerProfiles(ctx context.Context, userID string) ([]entity.Profile, error)
	FollowingProfiles(ctx context.Context, userID string) ([]entity.Profile, error)
	Counts(ctx context.Context, userID string) (*entity.FollowCounts, error)
}

type ProfileServiceInterface interface {
	GetProfilePage(ctx context.Context, viewerID, subjectID string) (*entity.ProfilePage, error)
	UpdateProfile(ctx context.Context, ownerID string, req *entity.UpdateProfileRequest) (*entity.Profile, error)
	UpdateReviewSettings(ctx context.Context, ownerID string, req *entity.ReviewSettingsRequest) (*entity.Profile, error)
	SearchProfiles(ctx context.Context, query string, limit int) ([]entity.Profile, error)
}

type IdeaServiceInterface interface {
	CreateIdea(ctx context.Context, ownerID string, req *entity.CreateIdeaRequest) (*entity.Idea, error)
	GetIdea(ctx context.Context, viewerID, ideaID string) (*entity.IdeaDetails, error)
	ListIdeasByUser(ctx context.Context, userID string) ([]entity.Idea, error)
	PostUpdate(ctx context.Context, ownerID, ideaID string, req *entity.PostUpdateRequest) (*entity.IdeaUpdate, error)
	ListUpdates(ctx context.Context, ideaID string) ([]entity.IdeaUpdate, error)
	GiveSignal(ctx context.Context, userID, ideaID string) (int, error)
	WithdrawSignal(ctx context.Context, userID, ideaID string) (int, error)
}

type FeedServiceInterface interface {
	Discover(ctx context.Context, viewerID string, q entity.FeedQuery) ([]entity.FeedItem, error)
}

type ReviewServiceInterface interface {
	Eligibility(ctx context.Context, reviewer *entity.Session, subjectID string, category entity.ReviewCategory) (*entity.Eligibility, error)
	Submit(ctx context.Context, reviewer *entity.Session, req *entity.SubmitReviewRequest) (*entity.Review, error)
	ListForSubject(ctx context.Context, subjectID string, category entity.ReviewCategory) ([]entity.ReviewView, error)
	SummariesFor(ctx context.Context, subjectID string) ([]entity.ReviewSummary, error)
	SearchSubjects(ctx context.Context, reviewer *entity.Session, category entity.ReviewCategory, query string, limit int) ([]entity.Profile, error)
}

type NotificationServiceInterface interface {
	List(ctx context.Context, recipientID string, limit int) ([]entity.NotificationView, error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
}

type MessageServiceInterface interface {
	Send(ctx context.Context, senderID string, req *entity.SendMessageRequest) (*entity.Message, error)
	Conversation(ctx context.Context, userID, otherID string, limit int) ([]entity.Message, error)
	Inbox(ctx context.Context, userID string) ([]entity.InboxEntry, error)
	MarkRead(ctx context.Context, userID, messageID string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type JobServiceInterface interface {
	Create(ctx context.Context, session *entity.Session, req *entity.CreateJobListingRequest) (*entity.JobListing, error)
	ListOpen(ctx context.Context, query string, limit int) ([]entity.JobListing, error)
	ListByBusiness(ctx context.Context, businessID string) ([]entity.JobListing, error)
	Close(ctx context.Context, ownerID, listingID string) error
}

type MediaServiceInterface interface {
	Upload(ctx context.Context, ownerID string, kind entity.MediaKind, filename, contentType string, size int64, body io.Reader) (*entity.UploadResult, error)
	MaxFileBytes() int64
}

var (
	_ SessionServiceInterface      = (*SessionService)(nil)
	_ RelationshipServiceInterface = (*RelationshipService)(nil)
	_ ProfileServiceInterface      = (*ProfileService)(nil)
	_ IdeaServiceInterface         = (*IdeaService)(nil)
	_ FeedServiceInterface         = (*FeedService)(nil)
	_ ReviewServiceInterface       = (*ReviewService)(nil)
	_ NotificationServiceInterface = (*NotificationService)(nil)
	_ MessageServiceInterface      = (*MessageService)(nil)
	_ JobServiceInterface          = (*JobService)(nil)
	_ MediaServiceInterface        = (*MediaService)(nil)
)
