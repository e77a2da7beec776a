package domain

import "github.com/yungbote/funnel-builder-backend/internal/domain/funnels"

type Funnel = funnels.Funnel
