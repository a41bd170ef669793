package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
	"github.com/turtacn/sds-wizard/internal/infrastructure/database/postgres"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

var fixedNow = time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)

type SDSRepoTestSuite struct {
	suite.Suite
	db   *sql.DB
	mock sqlmock.Sqlmock
	repo *SDSRepository
}

func (s *SDSRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	conn := postgres.NewConnectionWithDB(s.db, logging.NewNopLogger())
	s.repo = NewPostgresSDSRepo(conn, logging.NewNopLogger())
	s.repo.now = func() time.Time { return fixedNow }
}

func (s *SDSRepoTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
	s.db.Close()
}

func TestSDSRepoTestSuite(t *testing.T) {
	suite.Run(t, new(SDSRepoTestSuite))
}

func (s *SDSRepoTestSuite) TestSave_AssignsIDAndTimestamp() {
	rec := &sds.Record{CASNumber: "108-88-3", ProductName: "Toluene", Version: "1.0"}

	s.mock.ExpectQuery("INSERT INTO sds_records").
		WithArgs(sqlmock.AnyArg(), "108-88-3", "Toluene", "1.0", sqlmock.AnyArg(), fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(fixedNow))

	id, err := s.repo.Save(context.Background(), rec)
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, id)
	s.Equal(id, rec.ID)
	s.Equal(fixedNow, rec.CreatedAt)
}

func (s *SDSRepoTestSuite) TestSave_KeepsExistingID() {
	id := uuid.New()
	rec := &sds.Record{ID: id, CASNumber: "64-17-5"}

	s.mock.ExpectQuery("INSERT INTO sds_records").
		WithArgs(id, "64-17-5", "", "", sqlmock.AnyArg(), fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(fixedNow))

	got, err := s.repo.Save(context.Background(), rec)
	s.Require().NoError(err)
	s.Equal(id, got)
}

func (s *SDSRepoTestSuite) TestSave_Failure() {
	s.mock.ExpectQuery("INSERT INTO sds_records").WillReturnError(stderrors.New("connection reset"))

	_, err := s.repo.Save(context.Background(), &sds.Record{CASNumber: "108-88-3"})
	s.True(errors.IsCode(err, errors.ErrCodeSDSPersist))
}

func (s *SDSRepoTestSuite) TestSave_Duplicate() {
	s.mock.ExpectQuery("INSERT INTO sds_records").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "sds_records_pkey"})

	_, err := s.repo.Save(context.Background(), &sds.Record{ID: uuid.New()})
	s.True(errors.IsCode(err, errors.ErrCodeConflict))
}

func (s *SDSRepoTestSuite) TestSave_NilRecord() {
	_, err := s.repo.Save(context.Background(), nil)
	s.True(errors.IsCode(err, errors.CodeInvalidParam))
}

func (s *SDSRepoTestSuite) TestFindByID_Found() {
	id := uuid.New()
	data, err := json.Marshal(&sds.Record{
		CASNumber:     "108-88-3",
		ProductName:   "Toluene",
		LabelElements: []sds.LabelElement{{URL: "https://pubchem.ncbi.nlm.nih.gov/images/ghs/GHS02.svg", Description: "Flammable"}},
	})
	s.Require().NoError(err)

	s.mock.ExpectQuery("SELECT id, data, created_at FROM sds_records WHERE id =").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data", "created_at"}).AddRow(id.String(), data, fixedNow))

	rec, err := s.repo.FindByID(context.Background(), id)
	s.Require().NoError(err)
	s.Equal(id, rec.ID)
	s.Equal(fixedNow, rec.CreatedAt)
	s.Equal("Toluene", rec.ProductName)
	s.Require().Len(rec.LabelElements, 1)
	s.Equal("Flammable", rec.LabelElements[0].Description)
}

func (s *SDSRepoTestSuite) TestFindByID_NotFound() {
	id := uuid.New()
	s.mock.ExpectQuery("SELECT id, data, created_at FROM sds_records").
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := s.repo.FindByID(context.Background(), id)
	s.True(errors.IsCode(err, errors.ErrCodeSDSNotFound))
	s.True(errors.IsNotFound(err))
}

func (s *SDSRepoTestSuite) TestFindByID_CorruptDocument() {
	id := uuid.New()
	s.mock.ExpectQuery("SELECT id, data, created_at FROM sds_records").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data", "created_at"}).AddRow(id.String(), []byte("{"), fixedNow))

	_, err := s.repo.FindByID(context.Background(), id)
	s.True(errors.IsCode(err, errors.ErrCodeDatabaseError))
}

func (s *SDSRepoTestSuite) TestListByCAS() {
	a, b := uuid.New(), uuid.New()
	s.mock.ExpectQuery("SELECT id, data, created_at FROM sds_records\\s+WHERE cas_number").
		WithArgs("108-88-3", 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data", "created_at"}).
			AddRow(a.String(), []byte(`{"version":"2.0"}`), fixedNow).
			AddRow(b.String(), []byte(`{"version":"1.0"}`), fixedNow.Add(-time.Hour)))

	recs, err := s.repo.ListByCAS(context.Background(), "108-88-3", 0)
	s.Require().NoError(err)
	s.Require().Len(recs, 2)
	s.Equal(a, recs[0].ID)
	s.Equal("1.0", recs[1].Version)
}

func (s *SDSRepoTestSuite) TestMarkArchived() {
	id := uuid.New()
	s.mock.ExpectExec("UPDATE sds_records SET archive_key").
		WithArgs(id, "sds/"+id.String()+".pdf", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.MarkArchived(context.Background(), id, "sds/"+id.String()+".pdf"))
}

func (s *SDSRepoTestSuite) TestMarkArchived_Missing() {
	s.mock.ExpectExec("UPDATE sds_records").WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.repo.MarkArchived(context.Background(), uuid.New(), "k")
	s.True(errors.IsCode(err, errors.ErrCodeSDSNotFound))
}

func (s *SDSRepoTestSuite) TestWithTx_RollsBackOnError() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery("INSERT INTO sds_records").WillReturnError(stderrors.New("boom"))
	s.mock.ExpectRollback()

	err := s.repo.WithTx(context.Background(), func(tx *SDSRepository) error {
		_, err := tx.Save(context.Background(), &sds.Record{CASNumber: "108-88-3"})
		return err
	})
	s.Error(err)
}

func (s *SDSRepoTestSuite) TestWithTx_Commits() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery("INSERT INTO sds_records").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(fixedNow))
	s.mock.ExpectCommit()

	err := s.repo.WithTx(context.Background(), func(tx *SDSRepository) error {
		_, err := tx.Save(context.Background(), &sds.Record{CASNumber: "108-88-3"})
		return err
	})
	s.NoError(err)
}

//Personal.AI order the ending
