package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/auth"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/logging"
)

// maxArgumentLogLength caps how much of a string tool argument is logged.
const maxArgumentLogLength = 200

// MCPRequestLogger returns middleware that logs MCP JSON-RPC requests/responses.
// It reads the request body to extract the tool name and arguments and
// captures the response body to report JSON-RPC errors.
// Pass nil logger to disable logging.
func MCPRequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		// If no logger provided, pass through without logging
		if logger == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Read and restore request body for JSON-RPC parsing
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				logger.Error("Failed to read MCP request body", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

			var rpcReq jsonRPCRequest
			if err := json.Unmarshal(bodyBytes, &rpcReq); err != nil {
				logger.Debug("Failed to parse MCP request JSON", zap.Error(err))
				// Continue anyway - the MCP server reports the parse error itself
			}

			toolName := rpcReq.Params.Name
			userID := auth.GetUserIDFromContext(r.Context())

			logger.Debug("MCP request",
				zap.String("method", rpcReq.Method),
				zap.String("tool", toolName),
				zap.String("user_id", userID),
				zap.Any("arguments", sanitizeArguments(rpcReq.Params.Arguments)),
			)

			recorder := &mcpResponseRecorder{
				ResponseWriter: w,
				body:           &bytes.Buffer{},
			}
			start := time.Now()

			next.ServeHTTP(recorder, r)

			duration := time.Since(start)

			var rpcResp jsonRPCResponse
			if err := json.Unmarshal(recorder.body.Bytes(), &rpcResp); err != nil {
				logger.Debug("Failed to parse MCP response JSON", zap.Error(err))
				return
			}

			if rpcResp.Error != nil {
				logger.Debug("MCP response error",
					zap.String("tool", toolName),
					zap.String("user_id", userID),
					zap.Int("error_code", rpcResp.Error.Code),
					zap.String("error_message", rpcResp.Error.Message),
					zap.Duration("duration", duration),
				)
				return
			}
			logger.Debug("MCP response success",
				zap.String("tool", toolName),
				zap.String("user_id", userID),
				zap.Bool("tool_error", rpcResp.Result.IsError),
				zap.Duration("duration", duration),
			)
		})
	}
}

// jsonRPCRequest represents the structure of a JSON-RPC request for tools/call.
type jsonRPCRequest struct {
	Method string `json:"method"`
	Params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

// jsonRPCResponse represents the structure of a JSON-RPC response.
// Result.IsError is set when a tool returned a structured error result.
type jsonRPCResponse struct {
	Result struct {
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *jsonRPCError `json:"error"`
}

// jsonRPCError represents an error in a JSON-RPC response.
type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// mcpResponseRecorder is a response writer that captures the response body.
type mcpResponseRecorder struct {
	http.ResponseWriter
	body *bytes.Buffer
}

// Write captures the response body and writes it to the underlying writer.
func (r *mcpResponseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// sanitizeArguments redacts sensitive fields and truncates long values.
func sanitizeArguments(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}

	sensitiveKeywords := []string{"password", "secret", "token", "key", "credential"}
	result := make(map[string]any, len(args))

	for k, v := range args {
		lowerKey := strings.ToLower(k)
		isSensitive := false
		for _, keyword := range sensitiveKeywords {
			if strings.Contains(lowerKey, keyword) {
				isSensitive = true
				break
			}
		}

		if isSensitive {
			result[k] = logging.RedactedText
			continue
		}

		if str, ok := v.(string); ok {
			result[k] = logging.TruncateString(str, maxArgumentLogLength)
		} else {
			result[k] = v
		}
	}

	return result
}
