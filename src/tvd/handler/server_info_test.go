package handler

import (
	"errors"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tracelens/trace-lsp/src/tvd/internal/serverinfofile/serverinfofilemock"
	"go.uber.org/mock/gomock"
)

func TestOutputProcessInfo(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		serverInfoFile := serverinfofilemock.NewMockServerInfoFile(ctrl)
		serverInfoFile.EXPECT().UpdateField(_pidKey, strconv.Itoa(os.Getpid())).Return(nil)

		assert.NoError(t, outputProcessInfo(serverInfoFile))
	})

	t.Run("file update error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		serverInfoFile := serverinfofilemock.NewMockServerInfoFile(ctrl)
		serverInfoFile.EXPECT().UpdateField(_pidKey, gomock.Any()).Return(errors.New("sample"))

		assert.Error(t, outputProcessInfo(serverInfoFile))
	})
}
