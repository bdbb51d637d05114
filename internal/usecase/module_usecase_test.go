package usecase

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func catalogModules() []model.Module {
	return []model.Module{
		{ID: 5, Name: "Meal planner", ModuleType: model.ModuleTypeMealPlanner, Price: 999, IsActive: true},
		{ID: 6, Name: "Habit tracker", ModuleType: model.ModuleTypeHabitTracker, Price: 499, IsActive: true},
	}
}

// 未ログイン（userID=0）はownedを引かない
func TestListModules_Anonymous(t *testing.T) {
	moduleRepo := new(ModuleRepoMock)
	entitlements := new(EntitlementRepoMock)
	uc := NewModuleUsecase(moduleRepo, entitlements, new(AuditRepoMock))

	moduleRepo.On("ListPublic", mock.Anything, repo.ModuleListQuery{Page: 1, Limit: 20}).
		Return(catalogModules(), int64(2), nil)

	out, err := uc.ListModules(context.Background(), 0, ListModulesInput{})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.Total)
	assert.False(t, out.Items[0].Owned)
	entitlements.AssertNotCalled(t, "ListByUserID", mock.Anything, mock.Anything)
}

func TestListModules_MarksOwned(t *testing.T) {
	moduleRepo := new(ModuleRepoMock)
	entitlements := new(EntitlementRepoMock)
	uc := NewModuleUsecase(moduleRepo, entitlements, new(AuditRepoMock))

	moduleRepo.On("ListPublic", mock.Anything, mock.Anything).Return(catalogModules(), int64(2), nil)
	entitlements.On("ListByUserID", mock.Anything, int64(1)).
		Return([]model.UserModule{{UserID: 1, ModuleID: 5}}, nil)

	out, err := uc.ListModules(context.Background(), 1, ListModulesInput{})
	assert.NoError(t, err)
	assert.True(t, out.Items[0].Owned)
	assert.False(t, out.Items[1].Owned)
}

func TestListModules_LimitTooLarge(t *testing.T) {
	uc := NewModuleUsecase(new(ModuleRepoMock), new(EntitlementRepoMock), new(AuditRepoMock))

	_, err := uc.ListModules(context.Background(), 0, ListModulesInput{Limit: 101})
	assertHTTPError(t, err, http.StatusBadRequest)
}

func TestCreateModule_WritesAuditLog(t *testing.T) {
	moduleRepo := new(ModuleRepoMock)
	auditRepo := new(AuditRepoMock)
	uc := NewModuleUsecase(moduleRepo, new(EntitlementRepoMock), auditRepo)

	moduleRepo.On("Create", mock.Anything, mock.Anything).
		Return(model.Module{ID: 9, Name: "Stickers", ModuleType: model.ModuleTypeStickers, Price: 199, IsActive: true}, nil)
	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorID == 42 && l.Action == "module.create" && l.TargetID == 9
	})).Return(nil)

	out, err := uc.CreateModule(context.Background(), 42, AdminModuleInput{
		Name: "Stickers", ModuleType: model.ModuleTypeStickers, Price: 199, IsActive: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(9), out.ID)
	auditRepo.AssertExpectations(t)
}

func TestDeleteModule_SoftDeletes(t *testing.T) {
	moduleRepo := new(ModuleRepoMock)
	auditRepo := new(AuditRepoMock)
	uc := NewModuleUsecase(moduleRepo, new(EntitlementRepoMock), auditRepo)

	moduleRepo.On("FindByID", mock.Anything, int64(9)).
		Return(model.Module{ID: 9, Name: "Stickers"}, nil)
	moduleRepo.On("SoftDelete", mock.Anything, int64(9)).Return(nil)
	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == "module.delete" && l.TargetID == 9
	})).Return(nil)

	assert.NoError(t, uc.DeleteModule(context.Background(), 42, 9))
	moduleRepo.AssertExpectations(t)
}
