package voting

import (
	"context"
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/circlesync/backend/internal/models"
)

// Target selects which votable item kind a ledger or item store is
// bound to. Posts and comments share the votes table; the target picks
// the foreign-key column.
type Target int

const (
	TargetPost Target = iota
	TargetComment
)

func (t Target) column() string {
	if t == TargetComment {
		return "comment_id"
	}
	return "post_id"
}

func (t Target) model() interface{} {
	if t == TargetComment {
		return &models.Comment{}
	}
	return &models.Post{}
}

// GormLedger stores vote records in the votes table. Cleared votes are
// kept with vote_type = 0 rather than deleted.
type GormLedger struct {
	db     *gorm.DB
	target Target
}

func NewGormLedger(db *gorm.DB, target Target) *GormLedger {
	return &GormLedger{db: db, target: target}
}

func (l *GormLedger) Get(ctx context.Context, voterID, itemID int) (Disposition, error) {
	var vote models.Vote
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND "+l.target.column()+" = ?", voterID, itemID).
		First(&vote).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return DispositionNone, nil
	}
	if err != nil {
		return DispositionNone, errors.Wrap(err, "ledger: load vote")
	}
	return Disposition(vote.VoteType), nil
}

func (l *GormLedger) SetDisposition(ctx context.Context, voterID, itemID int, d Disposition) error {
	var vote models.Vote
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND "+l.target.column()+" = ?", voterID, itemID).
		First(&vote).Error

	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		// Only the column for this target is set; the other stays NULL
		// so the foreign key on it is satisfied.
		vote = models.Vote{UserID: voterID, VoteType: int(d)}
		if l.target == TargetComment {
			vote.CommentID = &itemID
		} else {
			vote.PostID = &itemID
		}
		return errors.Wrap(l.db.WithContext(ctx).Create(&vote).Error, "ledger: create vote")
	}
	if err != nil {
		return errors.Wrap(err, "ledger: load vote")
	}

	err = l.db.WithContext(ctx).Model(&vote).Update("vote_type", int(d)).Error
	return errors.Wrap(err, "ledger: update vote")
}

func (l *GormLedger) CountByDisposition(ctx context.Context, itemID int) (int, int, error) {
	var up, down int64
	col := l.target.column()

	err := l.db.WithContext(ctx).Model(&models.Vote{}).
		Where(col+" = ? AND vote_type = ?", itemID, int(DispositionUp)).
		Count(&up).Error
	if err != nil {
		return 0, 0, errors.Wrap(err, "ledger: count upvotes")
	}

	err = l.db.WithContext(ctx).Model(&models.Vote{}).
		Where(col+" = ? AND vote_type = ?", itemID, int(DispositionDown)).
		Count(&down).Error
	if err != nil {
		return 0, 0, errors.Wrap(err, "ledger: count downvotes")
	}

	return int(up), int(down), nil
}

// GormItemStore applies counter updates to posts or comments. Both
// deltas go out in a single UPDATE with signed increments, so
// concurrent voters on the same item never lose increments and the two
// counters move together.
type GormItemStore struct {
	db     *gorm.DB
	target Target
}

func NewGormItemStore(db *gorm.DB, target Target) *GormItemStore {
	return &GormItemStore{db: db, target: target}
}

func (s *GormItemStore) Exists(ctx context.Context, itemID int) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(s.target.model()).
		Where("id = ?", itemID).
		Count(&n).Error
	if err != nil {
		return false, errors.Wrap(err, "items: existence check")
	}
	return n > 0, nil
}

func (s *GormItemStore) ApplyDelta(ctx context.Context, itemID, deltaUp, deltaDown int) error {
	res := s.db.WithContext(ctx).Model(s.target.model()).
		Where("id = ?", itemID).
		UpdateColumns(map[string]interface{}{
			"upvotes":   gorm.Expr("upvotes + ?", deltaUp),
			"downvotes": gorm.Expr("downvotes + ?", deltaDown),
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "items: apply counter delta")
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *GormItemStore) SetCounters(ctx context.Context, itemID, up, down int) error {
	res := s.db.WithContext(ctx).Model(s.target.model()).
		Where("id = ?", itemID).
		UpdateColumns(map[string]interface{}{
			"upvotes":   up,
			"downvotes": down,
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "items: set counters")
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}
