package transaction_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mvillard/immogest/internal/directory"
	"github.com/mvillard/immogest/internal/transaction"
)

// okDirectory resolves every reference lookup.
func okDirectory(ctrl *gomock.Controller) *transaction.MockDirectory {
	dir := transaction.NewMockDirectory(ctrl)
	dir.EXPECT().GetProperty(gomock.Any(), gomock.Any()).Return(&directory.Property{ID: 1}, nil).AnyTimes()
	dir.EXPECT().GetClient(gomock.Any(), gomock.Any()).Return(&directory.Client{ID: 2}, nil).AnyTimes()
	dir.EXPECT().GetUser(gomock.Any(), gomock.Any()).Return(&directory.User{ID: 3}, nil).AnyTimes()

	return dir
}

func validCreateParams() transaction.CreateParams {
	return transaction.CreateParams{
		Type:       transaction.TypeSale,
		PropertyID: 1,
		ClientID:   2,
		Date:       date(2026, 3, 10),
		Amount:     dec("250000"),
		Status:     transaction.StatusPending,
		HandledBy:  3,
	}
}

func validAgreementParams() *transaction.AgreementParams {
	return &transaction.AgreementParams{
		StartDate:     date(2026, 4, 1),
		EndDate:       date(2027, 3, 31),
		RentAmount:    dec("650"),
		RentFrequency: transaction.FrequencyMonthly,
		DepositAmount: dec("1300"),
		PaymentDay:    5,
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    transaction.CreateParams
		setupMock func(m *transaction.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: validCreateParams(),
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = 42
						tx.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "SuccessWithAgreement",
			params: func() transaction.CreateParams {
				p := validCreateParams()
				p.Type = transaction.TypeRental
				p.Agreement = validAgreementParams()
				return p
			}(),
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						require.NotNil(t, tx.Agreement)
						assert.True(t, tx.Agreement.IsRenewable)
						tx.ID = 43
						tx.Agreement.ID = 7
						return nil
					})
			},
		},
		{
			name: "InvalidType",
			params: func() transaction.CreateParams {
				p := validCreateParams()
				p.Type = "lease"
				return p
			}(),
		},
		{
			name: "InvalidStatus",
			params: func() transaction.CreateParams {
				p := validCreateParams()
				p.Status = "done"
				return p
			}(),
		},
		{
			name: "AgreementOnSale",
			params: func() transaction.CreateParams {
				p := validCreateParams()
				p.Agreement = validAgreementParams()
				return p
			}(),
		},
		{
			name: "AgreementEndBeforeStart",
			params: func() transaction.CreateParams {
				p := validCreateParams()
				p.Type = transaction.TypeRental
				a := validAgreementParams()
				a.EndDate = date(2026, 3, 1)
				p.Agreement = a
				return p
			}(),
		},
		{
			name: "AgreementBadPaymentDay",
			params: func() transaction.CreateParams {
				p := validCreateParams()
				p.Type = transaction.TypeRental
				a := validAgreementParams()
				a.PaymentDay = 32
				p.Agreement = a
				return p
			}(),
		},
		{
			name: "AgreementZeroRent",
			params: func() transaction.CreateParams {
				p := validCreateParams()
				p.Type = transaction.TypeRental
				a := validAgreementParams()
				a.RentAmount = dec("0")
				p.Agreement = a
				return p
			}(),
		},
		{
			name:   "RepoError",
			params: validCreateParams(),
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo, okDirectory(ctrl))
			got, err := svc.Create(context.Background(), tt.params)

			if tt.setupMock == nil || tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				if tt.wantErr == nil {
					var verr *transaction.ValidationError
					assert.ErrorAs(t, err, &verr)
				}

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotZero(t, got.ID)
		})
	}
}

func TestService_Create_MissingReferences(t *testing.T) {
	type testCase struct {
		name     string
		setupDir func(dir *transaction.MockDirectory)
		wantErr  error
	}

	tests := []testCase{
		{
			name: "UnknownProperty",
			setupDir: func(dir *transaction.MockDirectory) {
				dir.EXPECT().GetProperty(gomock.Any(), int64(1)).Return(nil, directory.ErrNotFound)
			},
			wantErr: transaction.ErrPropertyNotFound,
		},
		{
			name: "UnknownClient",
			setupDir: func(dir *transaction.MockDirectory) {
				dir.EXPECT().GetProperty(gomock.Any(), int64(1)).Return(&directory.Property{ID: 1}, nil)
				dir.EXPECT().GetClient(gomock.Any(), int64(2)).Return(nil, directory.ErrNotFound)
			},
			wantErr: transaction.ErrClientNotFound,
		},
		{
			name: "UnknownUser",
			setupDir: func(dir *transaction.MockDirectory) {
				dir.EXPECT().GetProperty(gomock.Any(), int64(1)).Return(&directory.Property{ID: 1}, nil)
				dir.EXPECT().GetClient(gomock.Any(), int64(2)).Return(&directory.Client{ID: 2}, nil)
				dir.EXPECT().GetUser(gomock.Any(), int64(3)).Return(nil, directory.ErrNotFound)
			},
			wantErr: transaction.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			dir := transaction.NewMockDirectory(ctrl)
			tt.setupDir(dir)

			svc := transaction.NewService(repo, dir)
			_, err := svc.Create(context.Background(), validCreateParams())

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Update(t *testing.T) {
	t.Run("PartialFields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(10)).
			Return(&transaction.Transaction{
				ID:     10,
				Type:   transaction.TypeSale,
				Amount: dec("200000"),
				Status: transaction.StatusPending,
				Notes:  "first visit done",
			}, nil)
		repo.EXPECT().
			UpdateTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
				assert.True(t, tx.Amount.Equal(dec("215000")))
				assert.Equal(t, "first visit done", tx.Notes)
				return nil
			})

		svc := transaction.NewService(repo, okDirectory(ctrl))

		amount := dec("215000")
		got, err := svc.Update(context.Background(), 10, transaction.UpdateParams{Amount: &amount})
		require.NoError(t, err)
		assert.True(t, got.Amount.Equal(amount))
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(10)).
			Return(&transaction.Transaction{ID: 10, Type: transaction.TypeSale}, nil)

		svc := transaction.NewService(repo, okDirectory(ctrl))

		status := transaction.Status("archived")
		_, err := svc.Update(context.Background(), 10, transaction.UpdateParams{Status: &status})

		var verr *transaction.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("TypeSwitchKeepsAgreementInvariant", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(12)).
			Return(&transaction.Transaction{
				ID:        12,
				Type:      transaction.TypeRental,
				Agreement: &transaction.RentalAgreement{ID: 3, TransactionID: 12},
			}, nil)

		svc := transaction.NewService(repo, okDirectory(ctrl))

		newType := transaction.TypeSale
		_, err := svc.Update(context.Background(), 12, transaction.UpdateParams{Type: &newType})

		var verr *transaction.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("AgreementUpsertOnExisting", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(11)).
			Return(&transaction.Transaction{
				ID:   11,
				Type: transaction.TypeRental,
				Agreement: &transaction.RentalAgreement{
					ID:            5,
					TransactionID: 11,
					StartDate:     date(2026, 4, 1),
					EndDate:       date(2027, 3, 31),
					RentAmount:    dec("650"),
					RentFrequency: transaction.FrequencyMonthly,
					DepositAmount: dec("1300"),
					PaymentDay:    5,
				},
			}, nil)
		repo.EXPECT().
			UpdateTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
				assert.True(t, tx.Agreement.RentAmount.Equal(dec("700")))
				assert.Equal(t, 5, tx.Agreement.PaymentDay)
				return nil
			})

		svc := transaction.NewService(repo, okDirectory(ctrl))

		rent := dec("700")
		_, err := svc.Update(context.Background(), 11, transaction.UpdateParams{
			Agreement: &transaction.AgreementUpdateParams{RentAmount: &rent},
		})
		require.NoError(t, err)
	})

	t.Run("AgreementCreateRequiresFullTerms", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(12)).
			Return(&transaction.Transaction{ID: 12, Type: transaction.TypeRental}, nil)

		svc := transaction.NewService(repo, okDirectory(ctrl))

		rent := dec("700")
		_, err := svc.Update(context.Background(), 12, transaction.UpdateParams{
			Agreement: &transaction.AgreementUpdateParams{RentAmount: &rent},
		})

		var verr *transaction.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("AgreementOnSale", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(13)).
			Return(&transaction.Transaction{ID: 13, Type: transaction.TypeSale}, nil)

		svc := transaction.NewService(repo, okDirectory(ctrl))

		rent := dec("700")
		_, err := svc.Update(context.Background(), 13, transaction.UpdateParams{
			Agreement: &transaction.AgreementUpdateParams{RentAmount: &rent},
		})

		var verr *transaction.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(20)).
			Return(&transaction.Transaction{ID: 20, Status: transaction.StatusPending}, nil)
		repo.EXPECT().DeleteTransaction(gomock.Any(), int64(20)).Return(nil)

		svc := transaction.NewService(repo, okDirectory(ctrl))
		assert.NoError(t, svc.Delete(context.Background(), 20))
	})

	t.Run("CompletedIsProtected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(21)).
			Return(&transaction.Transaction{ID: 21, Status: transaction.StatusCompleted}, nil)

		svc := transaction.NewService(repo, okDirectory(ctrl))
		err := svc.Delete(context.Background(), 21)

		assert.ErrorIs(t, err, transaction.ErrTransactionCompleted)
	})

	t.Run("NotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(22)).
			Return(nil, transaction.ErrNotFound)

		svc := transaction.NewService(repo, okDirectory(ctrl))
		err := svc.Delete(context.Background(), 22)

		assert.ErrorIs(t, err, transaction.ErrNotFound)
	})
}

func TestService_ChangeStatus(t *testing.T) {
	t.Run("AppendsAuditLine", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		var savedNotes string

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(30)).
			Return(&transaction.Transaction{
				ID:     30,
				Status: transaction.StatusPending,
				Notes:  "Initial note",
			}, nil)
		repo.EXPECT().
			UpdateStatus(gomock.Any(), int64(30), transaction.StatusCompleted, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, _ transaction.Status, notes string) error {
				savedNotes = notes
				return nil
			})

		svc := transaction.NewService(repo, okDirectory(ctrl))
		got, err := svc.ChangeStatus(context.Background(), 30, transaction.StatusCompleted, "Keys handed over")
		require.NoError(t, err)

		assert.Equal(t, transaction.StatusCompleted, got.Status)
		assert.True(t, strings.HasPrefix(savedNotes, "Initial note\n\n["))
		assert.Contains(t, savedNotes, "] Status changed to 'completed': Keys handed over")
	})

	t.Run("EmptyNoteLeavesNotesUntouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(31)).
			Return(&transaction.Transaction{
				ID:     31,
				Status: transaction.StatusPending,
				Notes:  "Initial note",
			}, nil)
		repo.EXPECT().
			UpdateStatus(gomock.Any(), int64(31), transaction.StatusCancelled, "Initial note").
			Return(nil)

		svc := transaction.NewService(repo, okDirectory(ctrl))
		got, err := svc.ChangeStatus(context.Background(), 31, transaction.StatusCancelled, "")
		require.NoError(t, err)
		assert.Equal(t, "Initial note", got.Notes)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		svc := transaction.NewService(repo, okDirectory(ctrl))

		_, err := svc.ChangeStatus(context.Background(), 32, "archived", "")

		var verr *transaction.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestService_List(t *testing.T) {
	t.Run("ClampsPagination", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			ListTransactions(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, int, error) {
				assert.Equal(t, 1, filter.Page)
				assert.Equal(t, 100, filter.PerPage)
				return []*transaction.Transaction{{ID: 1}}, 250, nil
			})

		svc := transaction.NewService(repo, okDirectory(ctrl))
		page, err := svc.List(context.Background(), transaction.ListFilter{Page: 0, PerPage: 1000})
		require.NoError(t, err)

		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 100, page.PerPage)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 250, page.TotalItems)
	})

	t.Run("DefaultPerPage", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			ListTransactions(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, int, error) {
				assert.Equal(t, 10, filter.PerPage)
				return nil, 5, nil
			})

		svc := transaction.NewService(repo, okDirectory(ctrl))
		page, err := svc.List(context.Background(), transaction.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, page.TotalPages)
	})
}

func TestService_GetAgreement(t *testing.T) {
	t.Run("NilWhenNone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(40)).
			Return(&transaction.Transaction{ID: 40, Type: transaction.TypeRental}, nil)

		svc := transaction.NewService(repo, okDirectory(ctrl))
		ra, err := svc.GetAgreement(context.Background(), 40)
		require.NoError(t, err)
		assert.Nil(t, ra)
	})

	t.Run("ReturnsAgreement", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(41)).
			Return(&transaction.Transaction{
				ID:        41,
				Type:      transaction.TypeRental,
				Agreement: &transaction.RentalAgreement{ID: 9, TransactionID: 41},
			}, nil)

		svc := transaction.NewService(repo, okDirectory(ctrl))
		ra, err := svc.GetAgreement(context.Background(), 41)
		require.NoError(t, err)
		require.NotNil(t, ra)
		assert.Equal(t, int64(9), ra.ID)
	})

	t.Run("RejectsSaleTransaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(42)).
			Return(&transaction.Transaction{ID: 42, Type: transaction.TypeSale}, nil)

		svc := transaction.NewService(repo, okDirectory(ctrl))
		_, err := svc.GetAgreement(context.Background(), 42)

		var verr *transaction.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestService_CreateAgreement(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(50)).
			Return(&transaction.Transaction{ID: 50, Type: transaction.TypeRental}, nil)
		repo.EXPECT().
			CreateAgreement(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ra *transaction.RentalAgreement) error {
				assert.Equal(t, int64(50), ra.TransactionID)
				ra.ID = 8
				return nil
			})

		svc := transaction.NewService(repo, okDirectory(ctrl))
		ra, err := svc.CreateAgreement(context.Background(), 50, *validAgreementParams())
		require.NoError(t, err)
		assert.Equal(t, int64(8), ra.ID)
	})

	t.Run("NotRental", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(51)).
			Return(&transaction.Transaction{ID: 51, Type: transaction.TypeSale}, nil)

		svc := transaction.NewService(repo, okDirectory(ctrl))
		_, err := svc.CreateAgreement(context.Background(), 51, *validAgreementParams())

		var verr *transaction.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("AlreadyExists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransaction(gomock.Any(), int64(52)).
			Return(&transaction.Transaction{
				ID:        52,
				Type:      transaction.TypeRental,
				Agreement: &transaction.RentalAgreement{ID: 3},
			}, nil)

		svc := transaction.NewService(repo, okDirectory(ctrl))
		_, err := svc.CreateAgreement(context.Background(), 52, *validAgreementParams())

		var verr *transaction.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestService_UpdateAgreement(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetAgreement(gomock.Any(), int64(60)).
			Return(&transaction.RentalAgreement{
				ID:            4,
				TransactionID: 60,
				StartDate:     date(2026, 4, 1),
				EndDate:       date(2027, 3, 31),
				RentAmount:    dec("650"),
				RentFrequency: transaction.FrequencyMonthly,
				DepositAmount: dec("1300"),
				PaymentDay:    5,
			}, nil)
		repo.EXPECT().UpdateAgreement(gomock.Any(), gomock.Any()).Return(nil)

		svc := transaction.NewService(repo, okDirectory(ctrl))

		day := 10
		ra, err := svc.UpdateAgreement(context.Background(), 60, transaction.AgreementUpdateParams{PaymentDay: &day})
		require.NoError(t, err)
		assert.Equal(t, 10, ra.PaymentDay)
	})

	t.Run("NotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetAgreement(gomock.Any(), int64(61)).
			Return(nil, transaction.ErrAgreementNotFound)

		svc := transaction.NewService(repo, okDirectory(ctrl))
		_, err := svc.UpdateAgreement(context.Background(), 61, transaction.AgreementUpdateParams{})

		assert.ErrorIs(t, err, transaction.ErrAgreementNotFound)
	})

	t.Run("RevalidatesTerms", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().
			GetAgreement(gomock.Any(), int64(62)).
			Return(&transaction.RentalAgreement{
				ID:            4,
				TransactionID: 62,
				StartDate:     date(2026, 4, 1),
				EndDate:       date(2027, 3, 31),
				RentAmount:    dec("650"),
				RentFrequency: transaction.FrequencyMonthly,
				DepositAmount: dec("1300"),
				PaymentDay:    5,
			}, nil)

		svc := transaction.NewService(repo, okDirectory(ctrl))

		end := date(2025, 1, 1)
		_, err := svc.UpdateAgreement(context.Background(), 62, transaction.AgreementUpdateParams{EndDate: &end})

		var verr *transaction.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
