package protocol

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEncodeRequest_CarriesParametersAndInputRow(t *testing.T) {
	t.Parallel()

	codec := NewCodec(zap.NewNop())
	payload, err := codec.EncodeRequest("101", "5001", "scout01", "hunter2")
	require.NoError(t, err)

	body := string(payload)
	require.True(t, strings.HasPrefix(body, "<?xml"))
	require.Contains(t, body, `<Parameter id="service">gameInfoService</Parameter>`)
	require.Contains(t, body, `<Parameter id="method">selectGameDetail</Parameter>`)
	require.Contains(t, body, `<Parameter id="userId">scout01</Parameter>`)
	require.Contains(t, body,
		`<Parameter id="secret">`+base64.StdEncoding.EncodeToString([]byte("hunter2"))+`</Parameter>`)

	// One input dataset with typed columns and a single data row.
	require.Contains(t, body, `<Dataset id="input">`)
	require.Contains(t, body, `<Column id="COMPETITION_IDX" type="STRING" size="256">`)
	require.Contains(t, body, `<Col id="COMPETITION_IDX">101</Col>`)
	require.Contains(t, body, `<Col id="GAME_IDX">5001</Col>`)
	require.Contains(t, body, `<Col id="USER_ID">scout01</Col>`)
}

func TestDecodeResponse_MultipleDatasets(t *testing.T) {
	t.Parallel()

	payload := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<Root version="1.0">
  <Parameters>
    <Parameter id="ErrorCode">0</Parameter>
  </Parameters>
  <Dataset id="gameInfo">
    <Rows>
      <Row>
        <Col id="REFEREE">Kim</Col>
        <Col id="WEATHER">sunny</Col>
      </Row>
    </Rows>
  </Dataset>
  <Dataset id="eventList">
    <Rows>
      <Row><Col id="PLAYER_NAME">Lee</Col><Col id="EVENT_CD">G</Col></Row>
      <Row><Col id="PLAYER_NAME">Park</Col><Col id="EVENT_CD">YC</Col></Row>
    </Rows>
  </Dataset>
</Root>`)

	codec := NewCodec(zap.NewNop())
	tables, err := codec.DecodeResponse(payload)
	require.NoError(t, err)

	require.Len(t, tables, 2)
	require.Len(t, tables["gameInfo"], 1)
	require.Equal(t, "Kim", tables["gameInfo"][0].Get("REFEREE"))
	require.Len(t, tables["eventList"], 2)
	require.Equal(t, "Park", tables["eventList"][1].Get("PLAYER_NAME"))
}

func TestDecodeResponse_ErrorCodeYieldsEmptyMap(t *testing.T) {
	t.Parallel()

	payload := []byte(`<Root version="1.0">
  <Parameters>
    <Parameter id="ErrorCode">-94</Parameter>
    <Parameter id="ErrorMsg">session expired</Parameter>
  </Parameters>
  <Dataset id="gameInfo">
    <Rows><Row><Col id="REFEREE">Kim</Col></Row></Rows>
  </Dataset>
</Root>`)

	codec := NewCodec(zap.NewNop())
	tables, err := codec.DecodeResponse(payload)
	require.NoError(t, err)
	require.Empty(t, tables)
}

func TestDecodeResponse_MalformedPayload(t *testing.T) {
	t.Parallel()

	codec := NewCodec(zap.NewNop())
	_, err := codec.DecodeResponse([]byte("<Root><unclosed"))
	require.Error(t, err)
}

func TestRowGet_AbsentColumnDefaultsEmpty(t *testing.T) {
	t.Parallel()

	row := Row{"REFEREE": "Kim"}
	require.Equal(t, "Kim", row.Get("REFEREE"))
	require.Equal(t, "", row.Get("NOT_A_COLUMN"))
}
