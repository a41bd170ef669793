package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
	assert.Equal(t, "SDS_004", ErrCodeSDSPersist.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeValidation, 422},
		{ErrCodeSDSState, 409},
		{ErrCodeSDSSession, 404},
		{ErrCodePubChemTimeout, 504},
		{ErrorCode("UNKNOWN"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code), tt.code)
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "wizard session not found", DefaultMessageForCode(ErrCodeSDSSession))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("NOPE")))
}

func TestEveryCodeHasStatusAndMessage(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	for code := range ErrorCodeHTTPStatus {
		assert.Regexp(t, pattern, string(code))
		_, ok := ErrorCodeMessage[code]
		assert.True(t, ok, "missing message for %s", code)
	}
	assert.Equal(t, len(ErrorCodeHTTPStatus), len(ErrorCodeMessage))
}

func TestClientServerClassification(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeSDSValidation))
	assert.False(t, IsServerError(ErrCodeSDSValidation))
	assert.True(t, IsServerError(ErrCodeSDSPersist))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "SDS", ModuleForCode(ErrCodeSDSRender))
	assert.Equal(t, "PUBCHEM", ModuleForCode(ErrCodePubChemShape))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

//Personal.AI order the ending
