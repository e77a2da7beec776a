package layout

import "strings"

// BlockKind is the closed set of leaf content elements.
type BlockKind string

const (
	BlockText          BlockKind = "text"
	BlockHeading       BlockKind = "heading"
	BlockSubheading    BlockKind = "subheading"
	BlockRichText      BlockKind = "rich-text"
	BlockButton        BlockKind = "button"
	BlockLink          BlockKind = "link"
	BlockDivider       BlockKind = "divider"
	BlockSpacer        BlockKind = "spacer"
	BlockBulletList    BlockKind = "bullet-list"
	BlockNumberedList  BlockKind = "numbered-list"
	BlockQuote         BlockKind = "quote"
	BlockBadge         BlockKind = "badge"
	BlockIcon          BlockKind = "icon"
	BlockNavigationBar BlockKind = "navigation-bar"
	BlockHeader        BlockKind = "header"
	BlockLogo          BlockKind = "logo"
	BlockMenu          BlockKind = "menu"
	BlockBreadcrumb    BlockKind = "breadcrumb"
	BlockFooter        BlockKind = "footer"

	BlockImage           BlockKind = "image"
	BlockImageGallery    BlockKind = "image-gallery"
	BlockVideoEmbed      BlockKind = "video-embed"
	BlockVideoUpload     BlockKind = "video-upload"
	BlockBackgroundVideo BlockKind = "background-video"
	BlockIconBox         BlockKind = "icon-box"
	BlockImageText       BlockKind = "image-text"
	BlockLogoCarousel    BlockKind = "logo-carousel"
	BlockAudioPlayer     BlockKind = "audio-player"
)

var blockKinds = []BlockKind{
	BlockText, BlockHeading, BlockSubheading, BlockRichText, BlockButton, BlockLink,
	BlockDivider, BlockSpacer, BlockBulletList, BlockNumberedList, BlockQuote, BlockBadge,
	BlockIcon, BlockNavigationBar, BlockHeader, BlockLogo, BlockMenu, BlockBreadcrumb,
	BlockFooter,
	BlockImage, BlockImageGallery, BlockVideoEmbed, BlockVideoUpload, BlockBackgroundVideo,
	BlockIconBox, BlockImageText, BlockLogoCarousel, BlockAudioPlayer,
}

var blockKindSet = func() map[BlockKind]struct{} {
	m := make(map[BlockKind]struct{}, len(blockKinds))
	for _, k := range blockKinds {
		m[k] = struct{}{}
	}
	return m
}()

// BlockKinds lists every known kind in sidebar order.
func BlockKinds() []BlockKind {
	out := make([]BlockKind, len(blockKinds))
	copy(out, blockKinds)
	return out
}

func (k BlockKind) Valid() bool {
	_, ok := blockKindSet[k]
	return ok
}

// ParseBlockKind returns the kind for raw and whether it is known.
func ParseBlockKind(raw string) (BlockKind, bool) {
	k := BlockKind(strings.ToLower(strings.TrimSpace(raw)))
	return k, k.Valid()
}
