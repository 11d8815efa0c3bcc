package mapper

import (
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/model"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	return &entity.Note{
		Id:         n.Id,
		Title:      n.Title,
		Body:       n.Body,
		Slug:       n.Slug,
		Background: n.Background,
		UserId:     n.UserId,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	return &model.Note{
		Id:         n.Id,
		Title:      n.Title,
		Body:       n.Body,
		Slug:       n.Slug,
		Background: n.Background,
		UserId:     n.UserId,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

// ToOwnedEntities expects the User association to be preloaded.
func (m *NoteMapper) ToOwnedEntities(notes []*model.Note) []*entity.NoteWithOwner {
	rows := make([]*entity.NoteWithOwner, len(notes))
	for i, n := range notes {
		row := &entity.NoteWithOwner{Note: *m.ToEntity(n)}
		if n.User != nil {
			row.OwnerUsername = n.User.Username
		}
		rows[i] = row
	}
	return rows
}
