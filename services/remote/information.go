package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/Adriel2503/agente-reserva/models"
)

const (
	opSchedule = "OBTENER_HORARIO_REUNIONES"
	opBranches = "OBTENER_SUCURSALES_PUBLICAS"
	opCatalog  = "OBTENER_PRODUCTOS_SERVICIOS_PAQUETES"

	blockedRangesKey = "horarios_bloqueados"
)

type informationRequest struct {
	CodOpe    string `json:"codOpe"`
	CompanyID int    `json:"id_empresa"`
	Limit     int    `json:"limit,omitempty"`
}

type scheduleResponse struct {
	Success  bool                       `json:"success"`
	Error    string                     `json:"error"`
	Schedule map[string]json.RawMessage `json:"horario_reuniones"`
}

type branchesResponse struct {
	Success  bool            `json:"success"`
	Error    string          `json:"error"`
	Branches []models.Branch `json:"sucursales"`
}

type catalogResponse struct {
	Success  bool             `json:"success"`
	Error    string           `json:"error"`
	Products []models.Product `json:"productos"`
}

// InformationClient reads company data from the information service.
type InformationClient struct {
	client *Client
	url    string
}

func NewInformationClient(client *Client, url string) *InformationClient {
	return &InformationClient{client: client, url: url}
}

// FetchWeeklySchedule loads the meeting schedule and decodes blocked ranges into their tagged form.
func (ic *InformationClient) FetchWeeklySchedule(ctx context.Context, companyID int) (models.WeeklySchedule, error) {
	var resp scheduleResponse
	req := informationRequest{CodOpe: opSchedule, CompanyID: companyID}
	if err := ic.client.post(ctx, opSchedule, "obtener_horario", ic.url, req, &resp); err != nil {
		return models.WeeklySchedule{}, err
	}
	if !resp.Success {
		return models.WeeklySchedule{}, &Error{Op: opSchedule, Kind: KindRejected, Message: resp.Error}
	}
	if len(resp.Schedule) == 0 {
		return models.WeeklySchedule{}, &Error{Op: opSchedule, Kind: KindEmpty}
	}

	var schedule models.WeeklySchedule
	for i, key := range models.ScheduleDayKeys {
		var entry string
		if raw, ok := resp.Schedule[key]; ok && json.Unmarshal(raw, &entry) == nil {
			schedule.Days[i] = entry
		}
	}
	schedule.Blocked = DecodeBlockedRanges(resp.Schedule[blockedRangesKey])
	return schedule, nil
}

// FetchBranches lists the company's public branches.
func (ic *InformationClient) FetchBranches(ctx context.Context, companyID int) ([]models.Branch, error) {
	var resp branchesResponse
	req := informationRequest{CodOpe: opBranches, CompanyID: companyID}
	if err := ic.client.post(ctx, opBranches, "obtener_sucursales", ic.url, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &Error{Op: opBranches, Kind: KindRejected, Message: resp.Error}
	}
	return resp.Branches, nil
}

// FetchCatalog lists up to limit services and packages.
func (ic *InformationClient) FetchCatalog(ctx context.Context, companyID, limit int) ([]models.Product, error) {
	var resp catalogResponse
	req := informationRequest{CodOpe: opCatalog, CompanyID: companyID, Limit: limit}
	if err := ic.client.post(ctx, opCatalog, "obtener_productos", ic.url, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &Error{Op: opCatalog, Kind: KindRejected, Message: resp.Error}
	}
	return resp.Products, nil
}

// DecodeBlockedRanges accepts a JSON array, a string holding a JSON array, or a
// comma-separated string. Object entries become structured blocks and string
// entries free text; a mixed array keeps both. Anything else means nothing is blocked.
func DecodeBlockedRanges(raw json.RawMessage) models.BlockedRanges {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return models.BlockedRanges{}
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			return models.BlockedRanges{}
		}
		if strings.HasPrefix(text, "[") {
			if blocked, ok := decodeBlockedArray([]byte(text)); ok {
				return blocked
			}
		}
		return freeText(strings.Split(text, ","))
	}

	if blocked, ok := decodeBlockedArray(raw); ok {
		return blocked
	}
	return models.BlockedRanges{}
}

func decodeBlockedArray(data []byte) (models.BlockedRanges, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return models.BlockedRanges{}, false
	}

	var blocks []models.BlockedRange
	var entries []string
	for _, item := range items {
		item = bytes.TrimSpace(item)
		switch {
		case len(item) > 0 && item[0] == '{':
			var block models.BlockedRange
			if json.Unmarshal(item, &block) == nil {
				blocks = append(blocks, block)
			}
		case len(item) > 0 && item[0] == '"':
			var entry string
			if json.Unmarshal(item, &entry) == nil {
				entries = append(entries, entry)
			}
		}
	}

	blocked := freeText(entries)
	if len(blocks) > 0 {
		blocked.Kind = models.BlocksStructured
		blocked.Blocks = blocks
	}
	return blocked, true
}

func freeText(parts []string) models.BlockedRanges {
	var entries []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			entries = append(entries, p)
		}
	}
	if len(entries) == 0 {
		return models.BlockedRanges{}
	}
	return models.BlockedRanges{Kind: models.BlocksFreeText, Entries: entries}
}
