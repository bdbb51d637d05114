package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// ModuleUsecase は /shop/modules（カタログ）の業務ロジック。
type ModuleUsecase struct {
	moduleRepo      repo.ModuleRepository
	entitlementRepo repo.EntitlementRepository
	auditRepo       repo.AuditLogRepository
}

func NewModuleUsecase(
	moduleRepo repo.ModuleRepository,
	entitlementRepo repo.EntitlementRepository,
	auditRepo repo.AuditLogRepository,
) *ModuleUsecase {
	return &ModuleUsecase{
		moduleRepo:      moduleRepo,
		entitlementRepo: entitlementRepo,
		auditRepo:       auditRepo,
	}
}

type ListModulesInput struct {
	Page  int
	Limit int
	Q     string
}

type ModuleOutput struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	ModuleType  model.ModuleType `json:"module_type"`
	Description string           `json:"description"`
	Price       int64            `json:"price"`
	Owned       bool             `json:"owned"`
}

type ModuleListOutput struct {
	Items []ModuleOutput `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ListModules は公開カタログ。userID > 0 なら購入済みフラグを付ける。
func (u *ModuleUsecase) ListModules(ctx context.Context, userID int64, in ListModulesInput) (ModuleListOutput, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 {
		in.Limit = 20
	}
	if in.Limit > 100 {
		return ModuleListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.moduleRepo.ListPublic(ctx, repo.ModuleListQuery{
		Page:  in.Page,
		Limit: in.Limit,
		Q:     in.Q,
	})
	if err != nil {
		return ModuleListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//購入済みモジュールID
	owned := map[int64]bool{}
	if userID > 0 {
		ents, err := u.entitlementRepo.ListByUserID(ctx, userID)
		if err != nil {
			return ModuleListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, e := range ents {
			owned[e.ModuleID] = true
		}
	}

	outs := make([]ModuleOutput, 0, len(items))
	for _, m := range items {
		outs = append(outs, toModuleOutput(m, owned[m.ID]))
	}

	return ModuleListOutput{Items: outs, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *ModuleUsecase) GetModuleDetail(ctx context.Context, userID int64, moduleID int64) (ModuleOutput, error) {
	if moduleID <= 0 {
		return ModuleOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	m, err := u.moduleRepo.FindByID(ctx, moduleID)
	if err == repo.ErrNotFound {
		return ModuleOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ModuleOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	owned := false
	if userID > 0 {
		owned, err = u.entitlementRepo.HasByUserAndModule(ctx, userID, moduleID)
		if err != nil {
			return ModuleOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return toModuleOutput(m, owned), nil
}

type AdminModuleInput struct {
	Name        string
	ModuleType  model.ModuleType
	Description string
	Price       int64
	IsActive    bool
}

// CreateModule は管理者のカタログ追加。監査ログを残す。
func (u *ModuleUsecase) CreateModule(ctx context.Context, adminID int64, in AdminModuleInput) (ModuleOutput, error) {
	if in.Name == "" {
		return ModuleOutput{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price < 0 {
		return ModuleOutput{}, NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	created, err := u.moduleRepo.Create(ctx, model.Module{
		Name:        in.Name,
		ModuleType:  in.ModuleType,
		Description: in.Description,
		Price:       in.Price,
		IsActive:    in.IsActive,
	})
	if err != nil {
		return ModuleOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorID:    adminID,
		Action:     "module.create",
		TargetType: "module",
		TargetID:   created.ID,
		Detail:     created.Name,
	})

	return toModuleOutput(created, false), nil
}

func (u *ModuleUsecase) UpdateModule(ctx context.Context, adminID int64, moduleID int64, in AdminModuleInput) (ModuleOutput, error) {
	if moduleID <= 0 {
		return ModuleOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	m, err := u.moduleRepo.FindByID(ctx, moduleID)
	if err == repo.ErrNotFound {
		return ModuleOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ModuleOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.Name != "" {
		m.Name = in.Name
	}
	if in.ModuleType != "" {
		m.ModuleType = in.ModuleType
	}
	if in.Description != "" {
		m.Description = in.Description
	}
	if in.Price >= 0 {
		m.Price = in.Price
	}
	m.IsActive = in.IsActive

	if err := u.moduleRepo.Update(ctx, m); err != nil {
		if err == repo.ErrNotFound {
			return ModuleOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return ModuleOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorID:    adminID,
		Action:     "module.update",
		TargetType: "module",
		TargetID:   m.ID,
		Detail:     m.Name,
	})

	return toModuleOutput(m, false), nil
}

// DeleteModule はソフトデリート。購入済みユーザーの利用権は残る。
func (u *ModuleUsecase) DeleteModule(ctx context.Context, adminID int64, moduleID int64) error {
	if moduleID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	m, err := u.moduleRepo.FindByID(ctx, moduleID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.moduleRepo.SoftDelete(ctx, moduleID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorID:    adminID,
		Action:     "module.delete",
		TargetType: "module",
		TargetID:   m.ID,
		Detail:     m.Name,
	})

	return nil
}

func toModuleOutput(m model.Module, owned bool) ModuleOutput {
	return ModuleOutput{
		ID:          m.ID,
		Name:        m.Name,
		ModuleType:  m.ModuleType,
		Description: m.Description,
		Price:       m.Price,
		Owned:       owned,
	}
}

// 機能ゲート：module_typeの利用権が無ければ403。
func requireModuleAccess(ctx context.Context, ents repo.EntitlementRepository, userID int64, moduleType model.ModuleType) error {
	has, err := ents.HasByUserAndType(ctx, userID, moduleType)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !has {
		return NewHTTPError(http.StatusForbidden, "purchase required")
	}
	return nil
}
