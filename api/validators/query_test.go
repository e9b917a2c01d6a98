package validators

import (
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ovenandcrumb/bakeshop-backend/pkg/errors"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/pagination"
)

func TestParsePaginationDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/admin/v1/orders", nil)

	params, err := ParsePagination(r)
	require.NoError(t, err)
	assert.Equal(t, pagination.DefaultLimit, params.Limit)
	assert.Nil(t, params.Cursor)
}

func TestParsePaginationDecodesCursor(t *testing.T) {
	want := pagination.Cursor{
		CreatedAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		ID:        uuid.New(),
	}
	token := pagination.EncodeCursor(want)

	r := httptest.NewRequest("GET", "/api/admin/v1/orders?limit=10&cursor="+url.QueryEscape(token), nil)

	params, err := ParsePagination(r)
	require.NoError(t, err)
	assert.Equal(t, 10, params.Limit)
	require.NotNil(t, params.Cursor)
	assert.True(t, want.CreatedAt.Equal(params.Cursor.CreatedAt))
	assert.Equal(t, want.ID, params.Cursor.ID)
}

func TestParsePaginationRejectsBadCursor(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/admin/v1/orders?cursor=not-a-cursor", nil)

	_, err := ParsePagination(r)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestParsePaginationRejectsBadLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/admin/v1/orders?limit=banana", nil)

	_, err := ParsePagination(r)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
