// Package protocol implements the portal's tabular-XML RPC format: a
// request envelope carrying a parameters block plus a single-row input
// dataset, and a response of zero or more named datasets of text columns.
package protocol

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"

	"github.com/antchfx/xmlquery"
	"go.uber.org/zap"
)

// Parameter ids the portal recognizes in the request envelope.
const (
	paramService = "service"
	paramMethod  = "method"
	paramUserID  = "userId"
	paramSecret  = "secret"

	// Response parameter ids carrying the portal's own error channel.
	paramErrorCode = "ErrorCode"
	paramErrorMsg  = "ErrorMsg"
)

const (
	detailService = "gameInfoService"
	detailMethod  = "selectGameDetail"

	inputDatasetID = "input"
	columnType     = "STRING"
	columnSize     = "256"
)

// Row is one decoded dataset row: column id to text content.
type Row map[string]string

// Get returns the column value, or "" when the column is absent. The
// remote schema is not stable across games and seasons, so lookups are
// always best-effort.
func (r Row) Get(id string) string {
	return r[id]
}

// Codec translates between flat request parameters and the portal's XML
// envelope.
type Codec struct {
	logger *zap.Logger
}

// NewCodec returns a Codec logging protocol-level failures to logger.
func NewCodec(logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{logger: logger}
}

type envelope struct {
	XMLName    xml.Name   `xml:"Root"`
	Version    string     `xml:"version,attr"`
	Parameters parameters `xml:"Parameters"`
	Datasets   []dataset  `xml:"Dataset"`
}

type parameters struct {
	Parameter []parameter `xml:"Parameter"`
}

type parameter struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

type dataset struct {
	ID      string   `xml:"id,attr"`
	Columns []column `xml:"ColumnInfo>Column"`
	Rows    []xmlRow `xml:"Rows>Row"`
}

type column struct {
	ID   string `xml:"id,attr"`
	Type string `xml:"type,attr"`
	Size string `xml:"size,attr"`
}

type xmlRow struct {
	Cols []xmlCol `xml:"Col"`
}

type xmlCol struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

// EncodeSecret converts the raw session secret into the encoded form the
// portal expects, both in the envelope and in the session cookie.
func EncodeSecret(secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(secret))
}

// EncodeRequest builds the XML envelope for a game-detail call: routing
// and session parameters plus one single-row input dataset carrying the
// competition, game and user ids.
func (c *Codec) EncodeRequest(competitionID, gameID, userID, secret string) ([]byte, error) {
	env := envelope{
		Version: "1.0",
		Parameters: parameters{Parameter: []parameter{
			{ID: paramService, Value: detailService},
			{ID: paramMethod, Value: detailMethod},
			{ID: paramUserID, Value: userID},
			{ID: paramSecret, Value: EncodeSecret(secret)},
		}},
		Datasets: []dataset{{
			ID: inputDatasetID,
			Columns: []column{
				{ID: "COMPETITION_IDX", Type: columnType, Size: columnSize},
				{ID: "GAME_IDX", Type: columnType, Size: columnSize},
				{ID: "USER_ID", Type: columnType, Size: columnSize},
			},
			Rows: []xmlRow{{Cols: []xmlCol{
				{ID: "COMPETITION_IDX", Value: competitionID},
				{ID: "GAME_IDX", Value: gameID},
				{ID: "USER_ID", Value: userID},
			}}},
		}},
	}

	body, err := xml.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// DecodeResponse parses a response envelope into named tables. When the
// portal reports a non-zero error code the code and message are logged
// and an empty table map is returned; callers treat that as "no detail
// available", never as a batch failure.
func (c *Codec) DecodeResponse(payload []byte) (map[string][]Row, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("parse envelope: %w", err)
	}

	if code := parameterValue(doc, paramErrorCode); code != "" && code != "0" {
		c.logger.Warn("portal protocol error",
			zap.String("code", code),
			zap.String("message", parameterValue(doc, paramErrorMsg)),
		)
		return map[string][]Row{}, nil
	}

	tables := make(map[string][]Row)
	for _, ds := range xmlquery.Find(doc, "//Dataset") {
		id := ds.SelectAttr("id")
		if id == "" {
			continue
		}
		rows := make([]Row, 0)
		for _, rowNode := range xmlquery.Find(ds, ".//Row") {
			row := Row{}
			for _, colNode := range xmlquery.Find(rowNode, "Col") {
				if colID := colNode.SelectAttr("id"); colID != "" {
					row[colID] = colNode.InnerText()
				}
			}
			rows = append(rows, row)
		}
		tables[id] = rows
	}
	return tables, nil
}

func parameterValue(doc *xmlquery.Node, id string) string {
	node := xmlquery.FindOne(doc, fmt.Sprintf("//Parameters/Parameter[@id='%s']", id))
	if node == nil {
		return ""
	}
	return node.InnerText()
}
