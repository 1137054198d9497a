package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	requestBodyKey = "log.request.body"
	maxLoggedBody  = 2048
	redacted       = "[redacted]"
	binaryBody     = "[binary]"
)

// sensitiveKeys never reach the log; matching is by substring on the lowercased field name.
var sensitiveKeys = []string{"password", "code", "otp", "token", "id_token"}

func registerLogging(e *echo.Echo, logger *zap.Logger) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.String("route", c.Path()),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("actor", actorID(c)),
			}
			if v.RequestID != "" {
				fields = append(fields, zap.String("request_id", v.RequestID))
			}
			if body := c.Get(requestBodyKey); body != nil {
				fields = append(fields, zap.Any("body", body))
			}
			switch {
			case v.Error != nil:
				logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
			case v.Status >= 500:
				logger.Error("request", fields...)
			default:
				logger.Info("request", fields...)
			}
			return nil
		},
	}))

	e.Use(middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/swagger") || c.Request().URL.Path == "/metrics"
		},
		Handler: func(c echo.Context, reqBody, _ []byte) {
			if summary := summarizeBody(reqBody, c.Request().Header.Get(echo.HeaderContentType)); summary != nil {
				c.Set(requestBodyKey, summary)
			}
		},
	}))
}

func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, k := range sensitiveKeys {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func summarizeBody(body []byte, contentType string) any {
	if len(body) == 0 {
		return nil
	}
	mediaType, params, _ := mime.ParseMediaType(contentType)

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		return summarizeMultipart(body, params["boundary"])
	case mediaType == "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return binaryBody
		}
		out := make(map[string]any, len(values))
		for key, vals := range values {
			out[key] = scrub(key, strings.Join(vals, ","))
		}
		return out
	case mediaType == "application/json" || json.Valid(body):
		var data any
		if err := json.Unmarshal(body, &data); err == nil {
			return scrubJSON(data)
		}
	}

	if isBinary(body) {
		return binaryBody
	}
	return clamp(string(body))
}

func summarizeMultipart(body []byte, boundary string) any {
	if boundary == "" {
		return binaryBody
	}
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	fields := make(map[string]any)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return binaryBody
		}
		name := part.FormName()
		switch {
		case name == "":
		case part.FileName() != "":
			fields[name] = binaryBody + " " + part.FileName()
		default:
			data, err := io.ReadAll(io.LimitReader(part, maxLoggedBody+1))
			if err != nil {
				fields[name] = binaryBody
			} else {
				fields[name] = scrub(name, string(data))
			}
		}
		_ = part.Close()
	}
	return fields
}

func scrubJSON(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			if isSensitive(key) {
				out[key] = redacted
				continue
			}
			out[key] = scrubJSON(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = scrubJSON(item)
		}
		return out
	case string:
		return scrub("", v)
	default:
		return v
	}
}

func scrub(key, value string) string {
	if key != "" && isSensitive(key) {
		return redacted
	}
	if isBinary([]byte(value)) {
		return binaryBody
	}
	return clamp(value)
}

func isBinary(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return true
		}
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return true
		}
		data = data[size:]
	}
	return false
}

func clamp(value string) string {
	if len(value) <= maxLoggedBody {
		return value
	}
	cut := value[:maxLoggedBody]
	for !utf8.ValidString(cut) && len(cut) > 0 {
		cut = cut[:len(cut)-1]
	}
	return cut + "...(truncated)"
}
