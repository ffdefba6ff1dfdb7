package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeInvalidParameter, "invalid parameter: %s", "test")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter: test", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeDataNotFound, err.Code)
	suite.Equal("data not found", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeDataNotFound, cause, "data not found for symbol: %s", "JFC")
	suite.NotNil(err)
	suite.Equal(ErrCodeDataNotFound, err.Code)
	suite.Equal("data not found for symbol: JFC", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	suite.Equal("[300] data not found: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	suite.Equal(cause, err.Unwrap())
	suite.True(errors.Is(err, cause))
}

func (suite *ErrorTestSuite) TestUnwrapNil() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal(ErrCodeInvalidParameter, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeDataNotFound, "data not found")
	err := Wrap(ErrCodeIndicatorNotFound, "indicator not found", cause)
	// GetCode should return the outermost error's code
	suite.Equal(ErrCodeIndicatorNotFound, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeThroughStdlibWrapping() {
	// Codes must survive an fmt.Errorf("%w") layer at a call site.
	inner := New(ErrCodeDataNotFound, "data not found")
	err := fmt.Errorf("loading quotes: %w", inner)
	suite.Equal(ErrCodeDataNotFound, GetCode(err))
	suite.True(HasCode(err, ErrCodeDataNotFound))
}

func (suite *ErrorTestSuite) TestGetCodeFromStandardError() {
	err := errors.New("standard error")
	suite.Equal(ErrCodeUnknown, GetCode(err))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.True(HasCode(err, ErrCodeInvalidParameter))
	suite.False(HasCode(err, ErrCodeDataNotFound))
}

func (suite *ErrorTestSuite) TestErrorCodeValues() {
	// Verify some key error codes have expected values
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	suite.Equal(ErrorCode(200), ErrCodeUnsortedQuoteIndex)
	suite.Equal(ErrorCode(300), ErrCodeDataNotFound)
	suite.Equal(ErrorCode(400), ErrCodeIndicatorNotFound)
	suite.Equal(ErrorCode(500), ErrCodeStrategyNotFound)
	suite.Equal(ErrorCode(600), ErrCodeUnknownSizingMethod)
	suite.Equal(ErrorCode(700), ErrCodePersistenceFailed)
}
