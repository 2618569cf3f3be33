package codes

import "strings"

// Kind is the closed set of error kinds shared between the diary backend and its clients.
// The string value is the symbol the backend sends in the "code" field of an error envelope.
type Kind string

const (
	AuthRequired     Kind = "AUTH_REQUIRED"
	AuthFailed       Kind = "AUTH_FAILED"
	TokenExpired     Kind = "TOKEN_EXPIRED"
	PermissionDenied Kind = "PERMISSION_DENIED"

	ValidationError Kind = "VALIDATION_ERROR"
	NotFound        Kind = "NOT_FOUND"
	BadRequest      Kind = "BAD_REQUEST"

	ServerError        Kind = "SERVER_ERROR"
	ServiceUnavailable Kind = "SERVICE_UNAVAILABLE"

	// NetworkError and Timeout are produced on the client only.
	NetworkError Kind = "NETWORK_ERROR"
	Timeout      Kind = "TIMEOUT"

	DiaryNotFound     Kind = "DIARY_NOT_FOUND"
	EncryptionError   Kind = "ENCRYPTION_ERROR"
	AIServiceError    Kind = "AI_SERVICE_ERROR"
	EmailSendError    Kind = "EMAIL_SEND_ERROR"
	RateLimitExceeded Kind = "RATE_LIMIT_EXCEEDED"

	Unknown Kind = "UNKNOWN"
)

// ErrorCode represents a structured error shared across the backend and clients.
type ErrorCode struct {
	Numeric int32
	Kind    Kind
	Message string
}

var (
	// ErrAuthRequired indicates the request carried no credentials.
	ErrAuthRequired = ErrorCode{Numeric: 40101, Kind: AuthRequired, Message: "로그인이 필요합니다"}
	// ErrAuthFailed indicates credentials were rejected.
	ErrAuthFailed = ErrorCode{Numeric: 40102, Kind: AuthFailed, Message: "인증에 실패했습니다"}
	// ErrTokenExpired indicates the access token is past its expiry.
	ErrTokenExpired = ErrorCode{Numeric: 40103, Kind: TokenExpired, Message: "로그인이 만료되었습니다. 다시 로그인해주세요"}
	// ErrPermissionDenied indicates user lacks capability.
	ErrPermissionDenied = ErrorCode{Numeric: 40301, Kind: PermissionDenied, Message: "접근 권한이 없습니다"}
	// ErrValidation indicates malformed or invalid input.
	ErrValidation = ErrorCode{Numeric: 42201, Kind: ValidationError, Message: "입력값이 올바르지 않습니다"}
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = ErrorCode{Numeric: 40401, Kind: NotFound, Message: "요청한 리소스를 찾을 수 없습니다"}
	// ErrBadRequest indicates a request the backend refused to interpret.
	ErrBadRequest = ErrorCode{Numeric: 40001, Kind: BadRequest, Message: "잘못된 요청입니다"}
	// ErrServer indicates unknown server error.
	ErrServer = ErrorCode{Numeric: 50001, Kind: ServerError, Message: "서버 오류가 발생했습니다"}
	// ErrServiceUnavailable indicates the backend is temporarily down.
	ErrServiceUnavailable = ErrorCode{Numeric: 50301, Kind: ServiceUnavailable, Message: "서비스를 일시적으로 사용할 수 없습니다"}
	// ErrNetwork indicates the connection never completed.
	ErrNetwork = ErrorCode{Numeric: 1, Kind: NetworkError, Message: "네트워크 연결을 확인해주세요"}
	// ErrTimeout indicates the request was aborted or its deadline expired.
	ErrTimeout = ErrorCode{Numeric: 2, Kind: Timeout, Message: "요청 시간이 초과되었습니다"}
	// ErrDiaryNotFound indicates the diary entry does not exist.
	ErrDiaryNotFound = ErrorCode{Numeric: 40402, Kind: DiaryNotFound, Message: "일기를 찾을 수 없습니다"}
	// ErrEncryption indicates diary content could not be encrypted or decrypted.
	ErrEncryption = ErrorCode{Numeric: 50002, Kind: EncryptionError, Message: "암호화 처리 중 오류가 발생했습니다"}
	// ErrAIService indicates an upstream AI provider failed.
	ErrAIService = ErrorCode{Numeric: 50201, Kind: AIServiceError, Message: "AI 서비스 오류가 발생했습니다"}
	// ErrEmailSend indicates a notification email could not be delivered.
	ErrEmailSend = ErrorCode{Numeric: 50202, Kind: EmailSendError, Message: "이메일 전송에 실패했습니다"}
	// ErrTooManyRequests indicates rate limiting.
	ErrTooManyRequests = ErrorCode{Numeric: 42901, Kind: RateLimitExceeded, Message: "요청이 너무 많습니다. 잠시 후 다시 시도해주세요"}
	// ErrUnknown is used when nothing else matches.
	ErrUnknown = ErrorCode{Numeric: 0, Kind: Unknown, Message: "알 수 없는 오류가 발생했습니다"}
)

// Registry exposes a static list for validation or docs.
var Registry = []ErrorCode{
	ErrAuthRequired,
	ErrAuthFailed,
	ErrTokenExpired,
	ErrPermissionDenied,
	ErrValidation,
	ErrNotFound,
	ErrBadRequest,
	ErrServer,
	ErrServiceUnavailable,
	ErrNetwork,
	ErrTimeout,
	ErrDiaryNotFound,
	ErrEncryption,
	ErrAIService,
	ErrEmailSend,
	ErrTooManyRequests,
	ErrUnknown,
}

var byKind = func() map[Kind]ErrorCode {
	m := make(map[Kind]ErrorCode, len(Registry))
	for _, c := range Registry {
		m[c.Kind] = c
	}
	return m
}()

// Lookup returns the registry entry for kind.
func Lookup(kind Kind) (ErrorCode, bool) {
	c, ok := byKind[kind]
	return c, ok
}

// Parse maps a wire symbol to its Kind. Unrecognised symbols yield Unknown.
func Parse(symbol string) Kind {
	k := Kind(strings.ToUpper(strings.TrimSpace(symbol)))
	if _, ok := byKind[k]; ok {
		return k
	}
	return Unknown
}

// Valid reports whether k belongs to the taxonomy.
func (k Kind) Valid() bool {
	_, ok := byKind[k]
	return ok
}

func (k Kind) String() string {
	return string(k)
}

// DefaultMessage returns the user-facing message for kind in the default locale.
// It never returns an empty string.
func DefaultMessage(kind Kind) string {
	if c, ok := byKind[kind]; ok {
		return c.Message
	}
	return ErrUnknown.Message
}
