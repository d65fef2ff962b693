package grpcsvc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client вызывает StorefrontService без сгенерированных стабов.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient оборачивает установленное соединение.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Call выполняет метод method с телом req и возвращает ответ как map.
func (c *Client) Call(ctx context.Context, method string, req map[string]any, opts ...grpc.CallOption) (map[string]any, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

// WithSession добавляет в исходящий контекст идентификатор сессии и,
// если userID не пустой, идентификатор пользователя.
func WithSession(ctx context.Context, sessionID, userID string) context.Context {
	pairs := []string{SessionHeader, sessionID}
	if userID != "" {
		pairs = append(pairs, UserHeader, userID)
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...)
}
