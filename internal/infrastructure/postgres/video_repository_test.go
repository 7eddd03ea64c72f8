package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/hszk-dev/vidingest/internal/domain/model"
	"github.com/hszk-dev/vidingest/internal/domain/repository"
)

func TestVideoRepository_Create(t *testing.T) {
	videoID := uuid.New()

	tests := []struct {
		name    string
		path    string
		mockFn  func(mock pgxmock.PgxPoolIface)
		want    *model.Video
		wantErr error
	}{
		{
			name: "successful creation returns generated id",
			path: "clip.mp4",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"video_id", "video_path"}).
					AddRow(videoID, "clip.mp4")
				mock.ExpectQuery("INSERT INTO videos").
					WithArgs("clip.mp4").
					WillReturnRows(rows)
			},
			want: &model.Video{ID: videoID, Path: "clip.mp4"},
		},
		{
			name:    "empty path is rejected before the query",
			path:    "",
			mockFn:  func(mock pgxmock.PgxPoolIface) {},
			wantErr: model.ErrEmptyPath,
		},
		{
			name: "database error is catalog unavailable",
			path: "clip.mp4",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("INSERT INTO videos").
					WithArgs("clip.mp4").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: repository.ErrCatalogUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer mock.Close()

			tt.mockFn(mock)

			repo := NewVideoRepository(mock)
			got, err := repo.Create(context.Background(), tt.path)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Create() unexpected error = %v", err)
			}

			if *got != *tt.want {
				t.Errorf("Create() = %+v, want %+v", got, tt.want)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestVideoRepository_GetByID(t *testing.T) {
	videoID := uuid.New()

	tests := []struct {
		name    string
		mockFn  func(mock pgxmock.PgxPoolIface)
		want    *model.Video
		wantErr error
	}{
		{
			name: "successful retrieval",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"video_id", "video_path"}).
					AddRow(videoID, "clip.mp4")
				mock.ExpectQuery("SELECT .* FROM videos WHERE video_id").
					WithArgs(videoID).
					WillReturnRows(rows)
			},
			want: &model.Video{ID: videoID, Path: "clip.mp4"},
		},
		{
			name: "video not found",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT .* FROM videos WHERE video_id").
					WithArgs(videoID).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: repository.ErrVideoNotFound,
		},
		{
			name: "database error",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT .* FROM videos WHERE video_id").
					WithArgs(videoID).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: repository.ErrCatalogUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer mock.Close()

			tt.mockFn(mock)

			repo := NewVideoRepository(mock)
			got, err := repo.GetByID(context.Background(), videoID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetByID() error = %v, wantErr %v", err, tt.wantErr)
				}
				if errors.Is(tt.wantErr, repository.ErrCatalogUnavailable) && errors.Is(err, repository.ErrVideoNotFound) {
					t.Error("transport error must not be reported as not found")
				}
				return
			}

			if err != nil {
				t.Fatalf("GetByID() unexpected error = %v", err)
			}

			if *got != *tt.want {
				t.Errorf("GetByID() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestVideoRepository_GetByPath(t *testing.T) {
	videoID := uuid.New()

	tests := []struct {
		name    string
		path    string
		mockFn  func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "successful retrieval",
			path: "clip.mp4",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"video_id", "video_path"}).
					AddRow(videoID, "clip.mp4")
				mock.ExpectQuery("SELECT .* FROM videos WHERE video_path").
					WithArgs("clip.mp4").
					WillReturnRows(rows)
			},
		},
		{
			name: "no row for path",
			path: "missing.mp4",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT .* FROM videos WHERE video_path").
					WithArgs("missing.mp4").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: repository.ErrVideoNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer mock.Close()

			tt.mockFn(mock)

			repo := NewVideoRepository(mock)
			got, err := repo.GetByPath(context.Background(), tt.path)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetByPath() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("GetByPath() unexpected error = %v", err)
			}
			if got.ID != videoID || got.Path != tt.path {
				t.Errorf("GetByPath() = %+v", got)
			}
		})
	}
}

func TestVideoRepository_List(t *testing.T) {
	t.Run("returns all rows", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer mock.Close()

		first, second := uuid.New(), uuid.New()
		rows := pgxmock.NewRows([]string{"video_id", "video_path"}).
			AddRow(first, "a.mp4").
			AddRow(second, "b.mp4")
		mock.ExpectQuery("SELECT video_id, video_path FROM videos").WillReturnRows(rows)

		repo := NewVideoRepository(mock)
		got, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("List() unexpected error = %v", err)
		}

		if len(got) != 2 {
			t.Fatalf("List() returned %d videos, want 2", len(got))
		}
		if got[0].ID != first || got[1].Path != "b.mp4" {
			t.Errorf("List() = %+v, %+v", got[0], got[1])
		}
	})

	t.Run("empty table returns empty slice", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer mock.Close()

		mock.ExpectQuery("SELECT video_id, video_path FROM videos").
			WillReturnRows(pgxmock.NewRows([]string{"video_id", "video_path"}))

		repo := NewVideoRepository(mock)
		got, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("List() unexpected error = %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("List() = %v, want empty non-nil slice", got)
		}
	})

	t.Run("query error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer mock.Close()

		mock.ExpectQuery("SELECT video_id, video_path FROM videos").
			WillReturnError(errors.New("connection refused"))

		repo := NewVideoRepository(mock)
		_, err = repo.List(context.Background())
		if !errors.Is(err, repository.ErrCatalogUnavailable) {
			t.Errorf("List() error = %v, want ErrCatalogUnavailable", err)
		}
	})
}
