package event

import (
	"oficina/idgen"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

// CreateEvent appends an audit event inside the caller's transaction. The
// record is handed to the registered handlers only after commit, by the
// caller invoking InvokeHandlersFunc.
func CreateEvent(sourceType string, sourceId types.ID, sourceDesc string, category EventCategory,
	updatedProperties []UpdatedProperty, s *session.Session, db *gorm.DB) (*EventRecord, error) {

	record := EventRecord{
		ID: idgen.NextID(idWorker),
		Event: Event{
			SourceType: sourceType,
			SourceId:   sourceId,
			SourceDesc: sourceDesc,
			TenantId:   s.TenantID,

			EventCategory:     category,
			UpdatedProperties: updatedProperties,

			CreatorId:   s.Identity.ID,
			CreatorName: s.Identity.Nickname,
		},
		Synced:    false,
		Timestamp: types.CurrentTimestamp(),
	}
	if err := EventPersistCreateFunc(&record, db); err != nil {
		return nil, err
	}
	return &record, nil
}
