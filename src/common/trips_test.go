package common

import (
	"testing"

	"tbs/src/db"
	"tbs/src/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestCreateTripDerivesSlugFromTitle(t *testing.T) {
	gormDB, mock := newCommonMockDB()
	db.NewDB(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "trips"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectCommit()

	trip := models.Trip{
		Title:    "Spiti Valley Circuit",
		Currency: "INR",
		Active:   true,
	}
	id, err := CreateTrip(&trip)
	assert.Nil(t, err)
	assert.Equal(t, uint(5), id)
	assert.Equal(t, "spiti-valley-circuit", trip.Slug)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCreateTripKeepsSuppliedSlug(t *testing.T) {
	gormDB, mock := newCommonMockDB()
	db.NewDB(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "trips"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))
	mock.ExpectCommit()

	trip := models.Trip{
		Title:    "Spiti Valley Circuit",
		Slug:     "spiti-2026",
		Currency: "INR",
		Active:   true,
	}
	_, err := CreateTrip(&trip)
	assert.Nil(t, err)
	assert.Equal(t, "spiti-2026", trip.Slug)
	assert.Nil(t, mock.ExpectationsWereMet())
}
