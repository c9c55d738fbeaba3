package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spedflow/internal/domain"
	"spedflow/internal/port"
	"spedflow/mocks"
)

const loaderSample = `|0000|017|0|01012024|31012024|EMPRESA TESTE LTDA|12.345.678/0001-99|
|0150|F001|FORNECEDOR A|1058|05998707000110|123|
|0200|P001|ARROZ BRANCO|||UN|00|10063021|
|C100|0|1|F001|55|00|1|000123|35240112345678000199550010001234567890123456|01012024|01012024|1.000,00|
|C170|1|P001|ARROZ BRANCO|10,000|UN|100,00|0,00|0|000|1102|
|C170|2|P001||5,000|UN|50,00|0,00|0|000|5102|`

func newStagingMock() *mocks.MockStagingRepo {
	repo := new(mocks.MockStagingRepo)
	repo.On("InsertHeaders", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertParticipants", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertItems", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertDocuments", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertLines", mock.Anything, mock.Anything).Return(nil)
	return repo
}

func TestLoadContent(t *testing.T) {
	repo := newStagingMock()
	loader := NewLoader(repo, 3000, false)

	stats, err := loader.LoadContent(context.Background(), 1, "janeiro.txt", loaderSample)
	require.NoError(t, err)

	assert.Equal(t, "01/2024", stats.Periodo)
	assert.Equal(t, "01012024", stats.DtIni)
	assert.Equal(t, 1, stats.Participants)
	assert.Equal(t, 1, stats.Items)
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 2, stats.Lines)
	assert.Equal(t, 0, stats.Dangling)

	headers := repo.Calls[0].Arguments.Get(1).([]domain.PeriodHeader)
	require.Len(t, headers, 1)
	assert.Equal(t, "EMPRESA TESTE LTDA", headers[0].Nome)
	assert.Equal(t, "12345678000199", headers[0].CNPJ)
	assert.Equal(t, "janeiro.txt", headers[0].Arquivo)

	var lines []port.RegC170Row
	var docs []port.RegC100Row
	for _, call := range repo.Calls {
		switch call.Method {
		case "InsertLines":
			lines = call.Arguments.Get(1).([]port.RegC170Row)
		case "InsertDocuments":
			docs = call.Arguments.Get(1).([]port.RegC100Row)
		}
	}
	require.Len(t, docs, 1)
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Equal(t, docs[0].ID, line.IDC100)
		assert.Equal(t, "F001", line.CodPart)
		assert.Equal(t, "000123", line.NumDoc)
		assert.Equal(t, "12345678000199", line.Filial)
	}
}

func TestLoadContent_DanglingLine(t *testing.T) {
	content := "|0000|017|0|01012024|31012024|EMPRESA|12345678000199|\n" +
		"|C170|1|P001|ARROZ|1,000|UN|10,00|0,00|0|000|1102|"

	t.Run("lenient skips and counts", func(t *testing.T) {
		repo := newStagingMock()
		loader := NewLoader(repo, 3000, false)
		stats, err := loader.LoadContent(context.Background(), 1, "a.txt", content)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Dangling)
		assert.Equal(t, 0, stats.Lines)
	})

	t.Run("strict fails", func(t *testing.T) {
		repo := newStagingMock()
		loader := NewLoader(repo, 3000, true)
		_, err := loader.LoadContent(context.Background(), 1, "a.txt", content)
		var dangling *domain.DanglingReferenceError
		require.ErrorAs(t, err, &dangling)
		assert.Equal(t, "a.txt", dangling.File)
	})
}

func TestLoadContent_MissingHeader(t *testing.T) {
	repo := newStagingMock()
	loader := NewLoader(repo, 3000, false)
	_, err := loader.LoadContent(context.Background(), 1, "a.txt", "|0150|F001|FORNECEDOR A|1058|05998707000110|123|")
	var malformed *domain.MalformedRecordError
	require.ErrorAs(t, err, &malformed)
}

func TestLoadContent_ChunkedInserts(t *testing.T) {
	content := "|0000|017|0|01012024|31012024|EMPRESA|12345678000199|\n"
	for i := 0; i < 5; i++ {
		content += "|0150|F00" + string(rune('1'+i)) + "|FORNECEDOR|1058|05998707000110|123|\n"
	}

	repo := newStagingMock()
	loader := NewLoader(repo, 2, false)
	stats, err := loader.LoadContent(context.Background(), 1, "a.txt", content)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Participants)
	// 5 rows at batch size 2: chunks of 2, 2 and 1.
	repo.AssertNumberOfCalls(t, "InsertParticipants", 3)
}
