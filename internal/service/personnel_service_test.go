package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/army-personnel-api/internal/models"
	appErrors "github.com/noah-isme/army-personnel-api/pkg/errors"
)

func TestPersonnelServiceCreate(t *testing.T) {
	svc := newMemServices()
	rank := svc.store.rankByLevel(2)
	hard := svc.store.positionByBonus(15)
	join := mustDate("2024-03-01")

	detail, err := svc.personnel.Create(context.Background(), models.CreatePersonnelRequest{
		ArmyID:            "  #A300 ",
		FirstName:         "Erika",
		LastName:          "Mustermann",
		CurrentRankID:     rank.ID,
		SpecialPositionID: &hard.ID,
		JoinDate:          &join,
	})
	require.NoError(t, err)
	assert.Equal(t, "#A300", detail.ArmyID)
	assert.Zero(t, detail.TotalPoints)
	assert.True(t, detail.IsActive)
	assert.Equal(t, rank.Name, detail.CurrentRank.Name)
	assert.Equal(t, hard.Name, detail.SpecialPosition.Name)
	assert.Equal(t, "2024-03-01", models.NewDate(detail.JoinDate).String())
	require.NotNil(t, detail.Eligibility)
	assert.Equal(t, 100, detail.Eligibility.PointsToNext)
}

func TestPersonnelServiceCreateErrors(t *testing.T) {
	svc := newMemServices()
	rank := svc.store.rankByLevel(2)
	svc.store.addPerson("#TAKEN", 2, 0, nil)

	tests := []struct {
		name string
		req  models.CreatePersonnelRequest
		code string
	}{
		{"missing fields", models.CreatePersonnelRequest{ArmyID: "#X"}, appErrors.ErrValidation.Code},
		{"blank names", models.CreatePersonnelRequest{ArmyID: "#X", FirstName: "  ", LastName: "A", CurrentRankID: rank.ID}, appErrors.ErrValidation.Code},
		{"unknown rank", models.CreatePersonnelRequest{ArmyID: "#X", FirstName: "A", LastName: "B", CurrentRankID: 999}, appErrors.ErrNotFound.Code},
		{"unknown position", models.CreatePersonnelRequest{ArmyID: "#X", FirstName: "A", LastName: "B", CurrentRankID: rank.ID, SpecialPositionID: int64Ptr(999)}, appErrors.ErrNotFound.Code},
		{"duplicate army id", models.CreatePersonnelRequest{ArmyID: "#TAKEN", FirstName: "A", LastName: "B", CurrentRankID: rank.ID}, appErrors.ErrConflict.Code},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.personnel.Create(context.Background(), tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.code, appErrors.FromError(err).Code)
		})
	}
}

func TestPersonnelServiceUpdateSpecialPosition(t *testing.T) {
	svc := newMemServices()
	easy := svc.store.positionByBonus(5)
	p := svc.store.addPerson("#U", 3, 0, &easy.ID)

	var keep models.UpdatePersonnelRequest
	require.NoError(t, json.Unmarshal([]byte(`{"firstName":"Hans"}`), &keep))
	detail, err := svc.personnel.Update(context.Background(), p.ID, keep)
	require.NoError(t, err)
	assert.Equal(t, "Hans", detail.FirstName)
	require.NotNil(t, detail.SpecialPosition, "absent field keeps the position")

	var clear models.UpdatePersonnelRequest
	require.NoError(t, json.Unmarshal([]byte(`{"specialPositionId":null}`), &clear))
	detail, err = svc.personnel.Update(context.Background(), p.ID, clear)
	require.NoError(t, err)
	assert.Nil(t, detail.SpecialPosition)
	assert.Nil(t, detail.SpecialPositionID)

	var unknown models.UpdatePersonnelRequest
	require.NoError(t, json.Unmarshal([]byte(`{"specialPositionId":999}`), &unknown))
	_, err = svc.personnel.Update(context.Background(), p.ID, unknown)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.personnel.Update(context.Background(), 999, keep)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPersonnelServiceListPagination(t *testing.T) {
	svc := newMemServices()
	for _, id := range []string{"#1", "#2", "#3"} {
		svc.store.addPerson(id, 2, 0, nil)
	}

	items, page, err := svc.personnel.List(context.Background(), models.PersonnelFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, &models.Pagination{Page: 2, PageSize: 2, TotalCount: 3}, page)

	_, page, err = svc.personnel.List(context.Background(), models.PersonnelFilter{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, maxPageSize, page.PageSize)
}

func TestPersonnelServiceDeactivate(t *testing.T) {
	svc := newMemServices()
	p := svc.store.addPerson("#DEL", 2, 0, nil)

	require.NoError(t, svc.personnel.Deactivate(context.Background(), p.ID))
	assert.False(t, svc.store.person(p.ID).IsActive)

	err := svc.personnel.Deactivate(context.Background(), 12345)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	detail, err := svc.personnel.GetByArmyID(context.Background(), "#DEL")
	require.NoError(t, err)
	assert.False(t, detail.IsActive)
}
