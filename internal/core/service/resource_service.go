package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
	"github.com/accesshub/accesshub-api/internal/pkg/sanitize"
)

var errNoResourceAccess = &domain.Error{Kind: domain.ErrForbidden, Message: "You do not have access to this resource"}

var (
	resourceTypes = []string{
		string(domain.ResourcePDF), string(domain.ResourceDoc), string(domain.ResourceDocx),
		string(domain.ResourceXls), string(domain.ResourceXlsx), string(domain.ResourceImage),
		string(domain.ResourceVideo), string(domain.ResourceOther),
	}
	accessLevels = []string{
		string(domain.AccessPublic), string(domain.AccessUser), string(domain.AccessManager), string(domain.AccessAdmin),
	}
)

type resourceService struct {
	resources  ports.ResourceRepository
	activities ports.ActivityService
	storage    ports.ObjectStorage
	log        zerolog.Logger
	now        func() time.Time
}

// NewResourceService returns the resource service. storage may be nil, in
// which case downloads always use the stored URL.
func NewResourceService(
	resources ports.ResourceRepository,
	activities ports.ActivityService,
	storage ports.ObjectStorage,
	log zerolog.Logger,
) ports.ResourceService {
	return &resourceService{
		resources:  resources,
		activities: activities,
		storage:    storage,
		log:        log,
		now:        time.Now,
	}
}

func (s *resourceService) List(ctx context.Context, caller *domain.Identity, filter ports.ResourceFilter) ([]*domain.Resource, error) {
	if filter.Type != "" {
		if err := checkVar("type", filter.Type, oneOf(resourceTypes)); err != nil {
			return nil, err
		}
	}
	if filter.Category != "" {
		if err := checkVar("category", filter.Category, oneOf(domain.ResourceCategories)); err != nil {
			return nil, err
		}
	}
	filter.Tag = strings.ToLower(sanitize.Text(filter.Tag))
	filter.Search = sanitize.Text(filter.Search)
	filter.Status = domain.ResourceActive

	all, err := s.resources.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	visible := make([]*domain.Resource, 0, len(all))
	for _, r := range all {
		if r.CanAccess(caller) {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

// accessible loads a live resource and checks the caller may reach it.
func (s *resourceService) accessible(ctx context.Context, caller *domain.Identity, id string) (*domain.Resource, error) {
	if caller == nil || caller.User == nil {
		return nil, domain.ErrUnauthenticated
	}
	r, err := s.resources.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status == domain.ResourceDeleted {
		return nil, domain.ErrResourceNotFound
	}
	if !r.CanAccess(caller) {
		return nil, errNoResourceAccess
	}
	return r, nil
}

func (s *resourceService) View(ctx context.Context, caller *domain.Identity, id, ip string) (*domain.Resource, error) {
	if _, err := s.accessible(ctx, caller, id); err != nil {
		return nil, err
	}

	updated, err := s.resources.Increment(ctx, id, ports.CounterViews)
	if err != nil {
		return nil, err
	}

	if err := s.record(ctx, caller, updated, domain.ActionViewed, domain.TypeView, "Viewed resource", ip); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *resourceService) Download(ctx context.Context, caller *domain.Identity, id, ip string) (string, error) {
	if _, err := s.accessible(ctx, caller, id); err != nil {
		return "", err
	}

	updated, err := s.resources.Increment(ctx, id, ports.CounterDownloads)
	if err != nil {
		return "", err
	}

	link := updated.URL
	if s.storage != nil && updated.ObjectKey != "" {
		link, err = s.storage.PresignedURL(ctx, updated.ObjectKey, updated.FileName)
		if err != nil {
			return "", fmt.Errorf("download resource %s: %w", id, err)
		}
	}

	if err := s.record(ctx, caller, updated, domain.ActionDownloaded, domain.TypeDownload, "Downloaded "+updated.FileName, ip); err != nil {
		return "", err
	}
	return link, nil
}

func (s *resourceService) Create(ctx context.Context, caller *domain.Identity, in ports.CreateResourceInput) (*domain.Resource, error) {
	if caller == nil || caller.User == nil {
		return nil, domain.ErrUnauthenticated
	}
	if caller.Role != domain.RoleAdmin && caller.Role != domain.RoleManager {
		return nil, errNotOwner
	}

	name := sanitize.Text(in.Name)
	description := sanitize.Text(in.Description)
	accessLevel := in.AccessLevel
	if accessLevel == "" {
		accessLevel = string(domain.AccessUser)
	}
	version := sanitize.Text(in.Version)
	if version == "" {
		version = "1.0"
	}

	checks := []struct {
		field, tag string
		value      any
	}{
		{"name", "required,max=200", name},
		{"description", "max=1000", description},
		{"type", "required," + oneOf(resourceTypes), in.Type},
		{"category", "required," + oneOf(domain.ResourceCategories), in.Category},
		{"size", "required", in.Size},
		{"url", "required,url", in.URL},
		{"fileName", "required", in.FileName},
		{"accessLevel", oneOf(accessLevels), accessLevel},
	}
	for _, c := range checks {
		if err := checkVar(c.field, c.value, c.tag); err != nil {
			return nil, err
		}
	}

	tags := sanitize.Tags(in.Tags)
	for i, t := range tags {
		tags[i] = strings.ToLower(t)
	}
	allowed := in.AllowedUsers
	if allowed == nil {
		allowed = []string{}
	}

	now := s.now().UTC()
	created, err := s.resources.Create(ctx, &domain.Resource{
		Name:         name,
		Description:  description,
		Type:         domain.ResourceType(in.Type),
		Category:     in.Category,
		Size:         sanitize.Text(in.Size),
		URL:          in.URL,
		FileName:     sanitize.Text(in.FileName),
		ObjectKey:    strings.TrimSpace(in.ObjectKey),
		AccessLevel:  domain.AccessLevel(accessLevel),
		AllowedUsers: allowed,
		UploadedBy:   caller.ID(),
		Status:       domain.ResourceActive,
		Version:      version,
		Tags:         tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.record(ctx, caller, created, domain.ActionCreated, domain.TypeCreate, "Created resource", in.IPAddress); err != nil {
		return nil, err
	}
	return created, nil
}

// Delete archives the resource as deleted. Counters and history are kept.
func (s *resourceService) Delete(ctx context.Context, caller *domain.Identity, id, ip string) error {
	if caller == nil || caller.User == nil {
		return domain.ErrUnauthenticated
	}
	if !caller.IsAdmin() {
		return errNotOwner
	}

	r, err := s.resources.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if r.Status == domain.ResourceDeleted {
		return domain.ErrResourceNotFound
	}
	if err := s.resources.SetStatus(ctx, id, domain.ResourceDeleted); err != nil {
		return err
	}

	return s.record(ctx, caller, r, domain.ActionDeleted, domain.TypeDelete, "Deleted resource", ip)
}

func (s *resourceService) record(
	ctx context.Context,
	caller *domain.Identity,
	r *domain.Resource,
	action domain.ActivityAction,
	typ domain.ActivityType,
	description, ip string,
) error {
	_, err := s.activities.Record(ctx, ports.RecordActivityInput{
		ActorID:     caller.ID(),
		Action:      action,
		Target:      "Resource: " + r.Name,
		Type:        typ,
		Description: description,
		Metadata:    map[string]any{"resourceId": r.ID},
		IPAddress:   ip,
	})
	return err
}
