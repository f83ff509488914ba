package views

import (
	"context"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/services"
	"facility_crm_backend/pkg/utils"
)

// ClientSearchFields are the client fields the search box matches.
func ClientSearchFields(c models.Client) []string {
	return []string{c.FullName, c.Email, utils.StringValue(c.Phone)}
}

func clientID(c models.Client) string { return c.ID }

// ClientsPage backs the client directory. It has no status filter.
type ClientsPage struct {
	listPage[models.Client]
	clients services.ClientService
}

func NewClientsPage(ctx context.Context, clients services.ClientService) *ClientsPage {
	p := &ClientsPage{
		clients: clients,
	}
	p.init(ctx, ClientSearchFields, nil, clientID)
	return p
}

func (p *ClientsPage) Load(ctx context.Context) error {
	return p.load(ctx, p.refilter, func(ctx context.Context) (func(), error) {
		clients, err := p.clients.GetClients(ctx)
		if err != nil {
			return nil, err
		}
		return p.setRecords(clients), nil
	})
}

func (p *ClientsPage) Create(ctx context.Context, req services.CreateClientRequest) (*models.Client, error) {
	return p.submit(ctx, true, func(ctx context.Context) (*models.Client, error) {
		return p.clients.CreateClient(ctx, req)
	})
}

func (p *ClientsPage) Update(ctx context.Context, id string, req services.UpdateClientRequest) (*models.Client, error) {
	return p.submit(ctx, false, func(ctx context.Context) (*models.Client, error) {
		return p.clients.UpdateClient(ctx, id, req)
	})
}
