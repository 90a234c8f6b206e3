package analyzer

import (
	"errors"
	"fmt"

	"github.com/shouni/gemini-vehicle-kit/pkg/utils"
)

const (
	// MsgEmptyResponse はレスポンスにテキストが無かった場合の表示メッセージです。
	MsgEmptyResponse = "Không nhận được phản hồi từ AI."
	// MsgAnalysisFailed は解析失敗時の汎用表示メッセージです。
	MsgAnalysisFailed = "Đã xảy ra lỗi khi phân tích hình ảnh."
)

// ErrorKind は解析エラーの分類です。
type ErrorKind string

const (
	KindEmptyResponse   ErrorKind = "empty_response"
	KindMalformedResult ErrorKind = "malformed_result"
	KindProviderFailure ErrorKind = "provider_failure"
)

// AnalysisError は解析リクエストの失敗を表す構造化エラーです。
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// UserMessage は利用者に表示するメッセージを返します。
// 不正な結果の詳細はログにのみ残し、表示は汎用メッセージにします。
func (e *AnalysisError) UserMessage() string {
	switch e.Kind {
	case KindEmptyResponse:
		return MsgEmptyResponse
	case KindMalformedResult:
		return MsgAnalysisFailed
	default:
		return utils.OrDefault(e.Message, MsgAnalysisFailed)
	}
}

// NewEmptyResponse はテキストを含まないレスポンスのエラーを生成します。
func NewEmptyResponse() *AnalysisError {
	return &AnalysisError{Kind: KindEmptyResponse, Message: MsgEmptyResponse}
}

// NewMalformedResult は JSON の解析・検証エラーを包んだエラーを生成します。
func NewMalformedResult(cause error) *AnalysisError {
	msg := MsgAnalysisFailed
	if cause != nil {
		msg = cause.Error()
	}
	return &AnalysisError{Kind: KindMalformedResult, Message: msg, Cause: cause}
}

// NewProviderFailure は通信・認証・プロバイダー側のエラーを生成します。
// message が空の場合は汎用メッセージを使います。
func NewProviderFailure(message string, cause error) *AnalysisError {
	return &AnalysisError{
		Kind:    KindProviderFailure,
		Message: utils.OrDefault(message, MsgAnalysisFailed),
		Cause:   cause,
	}
}

// IsKind はエラーが指定された分類の AnalysisError かを判定します。
func IsKind(err error, kind ErrorKind) bool {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// UserMessage は任意のエラーから表示用メッセージを取り出します。
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.UserMessage()
	}
	return utils.OrDefault(err.Error(), MsgAnalysisFailed)
}
