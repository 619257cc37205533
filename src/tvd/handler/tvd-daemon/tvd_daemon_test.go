package tvddaemon

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tracelens/trace-lsp/src/tvd/controller/tvd-daemon/tvddaemonmock"
	"github.com/tracelens/trace-lsp/src/tvd/factory"
	"github.com/tracelens/trace-lsp/src/tvd/internal/jsonrpcfx/jsonrpcfxmock"
	"github.com/tracelens/trace-lsp/src/tvd/mapper"
	"github.com/tracelens/trace-lsp/src/tvd/mock/jsonrpc2mock"
	tally "github.com/uber-go/tally"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	jsonRPCMock := jsonrpcfxmock.NewMockJSONRPCModule(ctrl)
	jsonRPCMock.EXPECT().RegisterConnectionManager(gomock.Any())

	testScope := tally.NewTestScope("testing", make(map[string]string, 0))

	c := tvddaemonmock.NewMockController(ctrl)
	h := New(c, jsonRPCMock, testScope)
	assert.NotNil(t, h)
}

func TestNewConnection(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	c := tvddaemonmock.NewMockController(ctrl)
	testScope := tally.NewTestScope("testing", make(map[string]string, 0))

	mgr := jsonRPCConnectionManager{
		stats: testScope,
		ctrl:  c,
	}

	mockConn := jsonrpc2mock.NewMockConn(ctrl)
	var conn jsonrpc2.Conn = mockConn

	t.Run("create success", func(t *testing.T) {
		c.EXPECT().InitSession(gomock.Any(), gomock.Any()).Return(factory.UUID(), nil)
		router, err := mgr.NewConnection(ctx, &conn)
		assert.IsType(t, &jsonRPCRouter{}, router)
		assert.NoError(t, err)
	})

	t.Run("create failure", func(t *testing.T) {
		c.EXPECT().InitSession(gomock.Any(), gomock.Any()).Return(uuid.Nil, errors.New("error"))
		_, err := mgr.NewConnection(ctx, &conn)
		assert.Error(t, err)
	})
}

func TestRemoveConnection(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	c := tvddaemonmock.NewMockController(ctrl)
	id := factory.UUID()
	c.EXPECT().InitSession(gomock.Any(), gomock.Any()).Return(id, nil)
	c.EXPECT().EndSession(gomock.Any(), gomock.Any()).Do(func(ctx context.Context, id uuid.UUID) error {
		resultID, err := mapper.ContextToSessionUUID(ctx)
		assert.NoError(t, err)
		assert.Equal(t, id, resultID)
		return nil
	})

	testScope := tally.NewTestScope("testing", make(map[string]string, 0))

	mgr := jsonRPCConnectionManager{
		stats: testScope,
		ctrl:  c,
	}

	mockConn := jsonrpc2mock.NewMockConn(ctrl)
	var conn jsonrpc2.Conn = mockConn
	router, err := mgr.NewConnection(ctx, &conn)

	mgr.RemoveConnection(ctx, router.UUID())
	assert.NoError(t, err)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newMockReplier() jsonrpc2.Replier {
	return func(ctx context.Context, result interface{}, err error) error {
		return err
	}
}
