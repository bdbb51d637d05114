package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// DiaryUsecase は日記のCRUD。日記は無料機能なのでログインだけで使える。
type DiaryUsecase struct {
	diaryRepo repo.DiaryRepository
}

func NewDiaryUsecase(diaryRepo repo.DiaryRepository) *DiaryUsecase {
	return &DiaryUsecase{diaryRepo: diaryRepo}
}

type DiaryEntryInput struct {
	Date    time.Time
	Title   string
	Content string
	Mood    model.Mood
}

func (u *DiaryUsecase) ListEntries(ctx context.Context, userID int64) ([]model.DiaryEntry, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	entries, err := u.diaryRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return entries, nil
}

func (u *DiaryUsecase) GetEntry(ctx context.Context, userID int64, entryID int64) (model.DiaryEntry, error) {
	if userID <= 0 {
		return model.DiaryEntry{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	e, err := u.findOwned(ctx, userID, entryID)
	if err != nil {
		return model.DiaryEntry{}, err
	}
	return e, nil
}

func (u *DiaryUsecase) CreateEntry(ctx context.Context, userID int64, in DiaryEntryInput) (model.DiaryEntry, error) {
	if userID <= 0 {
		return model.DiaryEntry{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateDiaryInput(in); err != nil {
		return model.DiaryEntry{}, err
	}

	created, err := u.diaryRepo.Create(ctx, model.DiaryEntry{
		UserID:  userID,
		Date:    in.Date,
		Title:   in.Title,
		Content: in.Content,
		Mood:    in.Mood,
	})
	if err != nil {
		return model.DiaryEntry{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *DiaryUsecase) UpdateEntry(ctx context.Context, userID int64, entryID int64, in DiaryEntryInput) (model.DiaryEntry, error) {
	if userID <= 0 {
		return model.DiaryEntry{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateDiaryInput(in); err != nil {
		return model.DiaryEntry{}, err
	}

	e, err := u.findOwned(ctx, userID, entryID)
	if err != nil {
		return model.DiaryEntry{}, err
	}

	e.Date = in.Date
	e.Title = in.Title
	e.Content = in.Content
	e.Mood = in.Mood

	if err := u.diaryRepo.Update(ctx, e); err != nil {
		return model.DiaryEntry{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return e, nil
}

func (u *DiaryUsecase) DeleteEntry(ctx context.Context, userID int64, entryID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if _, err := u.findOwned(ctx, userID, entryID); err != nil {
		return err
	}

	if err := u.diaryRepo.DeleteByID(ctx, entryID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 他人のエントリは存在ごと隠す（404）。
func (u *DiaryUsecase) findOwned(ctx context.Context, userID int64, entryID int64) (model.DiaryEntry, error) {
	if entryID <= 0 {
		return model.DiaryEntry{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	e, err := u.diaryRepo.FindByID(ctx, entryID)
	if err == repo.ErrNotFound {
		return model.DiaryEntry{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.DiaryEntry{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if e.UserID != userID {
		return model.DiaryEntry{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return e, nil
}

func validateDiaryInput(in DiaryEntryInput) error {
	if in.Title == "" {
		return NewHTTPError(http.StatusBadRequest, "title required")
	}
	if in.Content == "" {
		return NewHTTPError(http.StatusBadRequest, "content required")
	}
	if in.Date.IsZero() {
		return NewHTTPError(http.StatusBadRequest, "date required")
	}
	if in.Mood != "" && !model.IsValidMood(in.Mood) {
		return NewHTTPError(http.StatusBadRequest, "invalid mood")
	}
	return nil
}
