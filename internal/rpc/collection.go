package rpc

import (
	"github.com/daniilsolovey/tourism-portal/internal/i18n"
	"github.com/daniilsolovey/tourism-portal/internal/portal"
)

func NewItemSummaries(in []portal.Item, lang i18n.Language) ItemSummaries {
	return portal.Map(in, func(it *portal.Item) ItemSummary { return NewItemSummary(*it, lang) })
}
