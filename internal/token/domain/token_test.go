package domain

import (
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestToken_IsExpiredAt(t *testing.T) {
	t.Run("NeverExpires", func(t *testing.T) {
		token := &Token{CreatedTimestamp: 1000}
		assert.Nil(t, token.ExpiresAt())
		assert.False(t, token.IsExpiredAt(1<<40))
	})

	t.Run("BoundaryIsExpired", func(t *testing.T) {
		token := &Token{CreatedTimestamp: 1000, ExpiresAfterSeconds: int64Ptr(60)}
		assert.Equal(t, int64(1060), *token.ExpiresAt())
		assert.False(t, token.IsExpiredAt(1059))
		assert.True(t, token.IsExpiredAt(1060))
	})

	t.Run("ExpiredRegardlessOfStoredStatus", func(t *testing.T) {
		token := &Token{Status: StatusActive, CreatedTimestamp: 1000, ExpiresAfterSeconds: int64Ptr(60)}
		assert.True(t, token.IsActive())
		assert.True(t, token.IsExpiredAt(1120))
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "active", StatusActive.String())
	assert.Equal(t, "revoked", StatusRevoked.String())
	assert.Equal(t, "expired", StatusExpired.String())
	assert.Equal(t, "unknown", Status("L").String())
}

func TestIssueTokenInput_ExpiresAfter(t *testing.T) {
	tests := []struct {
		name     string
		input    IssueTokenInput
		expected *int64
		errField string
	}{
		{name: "NoExpiry", input: IssueTokenInput{}, expected: nil},
		{name: "Minutes", input: IssueTokenInput{ExpireType: "minutes", ExpireDuration: "5"}, expected: int64Ptr(300)},
		{name: "Hours", input: IssueTokenInput{ExpireType: "hours", ExpireDuration: "2"}, expected: int64Ptr(7200)},
		{name: "Days", input: IssueTokenInput{ExpireType: "days", ExpireDuration: "1"}, expected: int64Ptr(86400)},
		{name: "Zero", input: IssueTokenInput{ExpireType: "hours", ExpireDuration: "0"}, errField: "expire_duration"},
		{name: "Negative", input: IssueTokenInput{ExpireType: "hours", ExpireDuration: "-1"}, errField: "expire_duration"},
		{name: "Missing", input: IssueTokenInput{ExpireType: "hours"}, errField: "expire_duration"},
		{name: "NotDigits", input: IssueTokenInput{ExpireType: "hours", ExpireDuration: "1.5"}, errField: "expire_duration"},
		{name: "BadUnit", input: IssueTokenInput{ExpireType: "weeks", ExpireDuration: "1"}, errField: "expire_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.input.ExpiresAfter()
			if tt.errField != "" {
				require.Error(t, err)
				var verrs validation.Errors
				require.ErrorAs(t, err, &verrs)
				assert.Contains(t, verrs, tt.errField)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("BadUnitMessage", func(t *testing.T) {
		input := IssueTokenInput{ExpireType: "weeks", ExpireDuration: "1"}
		_, err := input.ExpiresAfter()
		assert.Contains(t, err.Error(), "Invalid expire duration unit")
	})
}

func TestAbbreviateAction(t *testing.T) {
	assert.Equal(t, "vt", AbbreviateAction("view-table"))
	assert.Equal(t, "vt", AbbreviateAction("vt"))
	assert.Equal(t, "custom-action", AbbreviateAction("custom-action"))
	assert.Equal(t, "view-table", ExpandAction("vt"))
}
