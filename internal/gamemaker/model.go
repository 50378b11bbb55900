package gamemaker

import "github.com/gmhelper/gmhelper/internal/sheet"

// Field order follows the order GameMaker itself writes, so re-saving a
// project in the IDE produces no spurious diffs.

const resourceVersion = "2.0"

// ResourceRef points at another resource of the project.
type ResourceRef struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Folder is one entry of the project's Folders array.
type Folder struct {
	Tag             string `json:"$GMFolder"`
	NameField       string `json:"%Name"`
	FolderPath      string `json:"folderPath"`
	Name            string `json:"name"`
	ResourceType    string `json:"resourceType"`
	ResourceVersion string `json:"resourceVersion"`
}

func newFolder(name, folderPath string) Folder {
	return Folder{
		NameField:       name,
		FolderPath:      folderPath,
		Name:            name,
		ResourceType:    "GMFolder",
		ResourceVersion: resourceVersion,
	}
}

// resourceEntry is one entry of the project's resources array.
type resourceEntry struct {
	ID ResourceRef `json:"id"`
}

// Sprite is a GameMaker sprite resource (.yy).
type Sprite struct {
	Tag                string       `json:"$GMSprite"`
	NameField          string       `json:"%Name"`
	BBoxMode           int          `json:"bboxMode"`
	BBoxBottom         int          `json:"bbox_bottom"`
	BBoxLeft           int          `json:"bbox_left"`
	BBoxRight          int          `json:"bbox_right"`
	BBoxTop            int          `json:"bbox_top"`
	CollisionKind      int          `json:"collisionKind"`
	CollisionTolerance int          `json:"collisionTolerance"`
	DynamicTexturePage bool         `json:"dynamicTexturePage"`
	EdgeFiltering      bool         `json:"edgeFiltering"`
	For3D              bool         `json:"For3D"`
	Frames             []Frame      `json:"frames"`
	GridX              int          `json:"gridX"`
	GridY              int          `json:"gridY"`
	Height             int          `json:"height"`
	HTile              bool         `json:"HTile"`
	Layers             []ImageLayer `json:"layers"`
	Name               string       `json:"name"`
	NineSlice          interface{}  `json:"nineSlice"`
	Origin             int          `json:"origin"`
	Parent             ResourceRef  `json:"parent"`
	PreMultiplyAlpha   bool         `json:"preMultiplyAlpha"`
	ResourceType       string       `json:"resourceType"`
	ResourceVersion    string       `json:"resourceVersion"`
	Sequence           Sequence     `json:"sequence"`
	SwatchColours      interface{}  `json:"swatchColours"`
	SWFPrecision       float64      `json:"swfPrecision"`
	TextureGroupID     ResourceRef  `json:"textureGroupId"`
	Type               int          `json:"type"`
	VTile              bool         `json:"VTile"`
	Width              int          `json:"width"`
}

// Frame is one image of a sprite.
type Frame struct {
	Tag             string `json:"$GMSpriteFrame"`
	NameField       string `json:"%Name"`
	Name            string `json:"name"`
	ResourceType    string `json:"resourceType"`
	ResourceVersion string `json:"resourceVersion"`
}

// ImageLayer is one layer of a sprite.
type ImageLayer struct {
	Tag             string  `json:"$GMImageLayer"`
	NameField       string  `json:"%Name"`
	BlendMode       int     `json:"blendMode"`
	DisplayName     string  `json:"displayName"`
	IsLocked        bool    `json:"isLocked"`
	Name            string  `json:"name"`
	Opacity         float64 `json:"opacity"`
	ResourceType    string  `json:"resourceType"`
	ResourceVersion string  `json:"resourceVersion"`
	Visible         bool    `json:"visible"`
}

// Sequence is the playback sequence embedded in a sprite.
type Sequence struct {
	Tag                  string                 `json:"$GMSequence"`
	NameField            string                 `json:"%Name"`
	AutoRecord           bool                   `json:"autoRecord"`
	BackdropHeight       int                    `json:"backdropHeight"`
	BackdropImageOpacity float64                `json:"backdropImageOpacity"`
	BackdropImagePath    string                 `json:"backdropImagePath"`
	BackdropWidth        int                    `json:"backdropWidth"`
	BackdropXOffset      float64                `json:"backdropXOffset"`
	BackdropYOffset      float64                `json:"backdropYOffset"`
	Events               MessageEventStore      `json:"events"`
	EventStubScript      interface{}            `json:"eventStubScript"`
	EventToFunction      map[string]interface{} `json:"eventToFunction"`
	Length               float64                `json:"length"`
	LockOrigin           bool                   `json:"lockOrigin"`
	Moments              MomentsEventStore      `json:"moments"`
	Name                 string                 `json:"name"`
	Playback             int                    `json:"playback"`
	PlaybackSpeed        float64                `json:"playbackSpeed"`
	PlaybackSpeedType    int                    `json:"playbackSpeedType"`
	ResourceType         string                 `json:"resourceType"`
	ResourceVersion      string                 `json:"resourceVersion"`
	SeqHeight            float64                `json:"seqHeight"`
	SeqWidth             float64                `json:"seqWidth"`
	ShowBackdrop         bool                   `json:"showBackdrop"`
	ShowBackdropImage    bool                   `json:"showBackdropImage"`
	TimeUnits            int                    `json:"timeUnits"`
	Tracks               []FramesTrack          `json:"tracks"`
	VisibleRange         interface{}            `json:"visibleRange"`
	Volume               float64                `json:"volume"`
	XOrigin              int                    `json:"xorigin"`
	YOrigin              int                    `json:"yorigin"`
}

// MessageEventStore holds the message events of a sequence.
type MessageEventStore struct {
	Tag             string        `json:"$KeyframeStore<MessageEventKeyframe>"`
	Keyframes       []interface{} `json:"keyframes"`
	ResourceType    string        `json:"resourceType"`
	ResourceVersion string        `json:"resourceVersion"`
}

// MomentsEventStore holds the moment events of a sequence.
type MomentsEventStore struct {
	Tag             string        `json:"$KeyframeStore<MomentsEventKeyframe>"`
	Keyframes       []interface{} `json:"keyframes"`
	ResourceType    string        `json:"resourceType"`
	ResourceVersion string        `json:"resourceVersion"`
}

// FrameKeyframeStore holds the frame keyframes of a frames track.
type FrameKeyframeStore struct {
	Tag             string          `json:"$KeyframeStore<SpriteFrameKeyframe>"`
	Keyframes       []FrameKeyframe `json:"keyframes"`
	ResourceType    string          `json:"resourceType"`
	ResourceVersion string          `json:"resourceVersion"`
}

// FramesTrack is the sequence track listing sprite frames over time.
type FramesTrack struct {
	Tag                 string             `json:"$GMSpriteFramesTrack"`
	BuiltinName         int                `json:"builtinName"`
	Events              []interface{}      `json:"events"`
	InheritsTrackColour bool               `json:"inheritsTrackColour"`
	Interpolation       int                `json:"interpolation"`
	IsCreationTrack     bool               `json:"isCreationTrack"`
	Keyframes           FrameKeyframeStore `json:"keyframes"`
	Modifiers           []interface{}      `json:"modifiers"`
	Name                string             `json:"name"`
	ResourceType        string             `json:"resourceType"`
	ResourceVersion     string             `json:"resourceVersion"`
	SpriteID            interface{}        `json:"spriteId"`
	TrackColour         int                `json:"trackColour"`
	Tracks              []interface{}      `json:"tracks"`
	Traits              int                `json:"traits"`
}

// FrameKeyframe shows one frame at one point of the sequence.
type FrameKeyframe struct {
	Tag             string                     `json:"$Keyframe<SpriteFrameKeyframe>"`
	Channels        map[string]FrameKeyChannel `json:"channels"`
	Disabled        bool                       `json:"disabled"`
	ID              string                     `json:"id"`
	IsCreationKey   bool                       `json:"IsCreationKey"`
	Key             float64                    `json:"Key"`
	Length          float64                    `json:"Length"`
	ResourceType    string                     `json:"resourceType"`
	ResourceVersion string                     `json:"resourceVersion"`
	Stretch         bool                       `json:"Stretch"`
}

// FrameKeyChannel references the frame a keyframe displays.
type FrameKeyChannel struct {
	Tag             string      `json:"$SpriteFrameKeyframe"`
	ID              ResourceRef `json:"id"`
	ResourceType    string      `json:"resourceType"`
	ResourceVersion string      `json:"resourceVersion"`
}

// spriteOverrides are the collision and origin settings kept when a sprite
// is re-imported at the same size.
type spriteOverrides struct {
	BBoxMode   *int `json:"bboxMode"`
	BBoxBottom *int `json:"bbox_bottom"`
	BBoxLeft   *int `json:"bbox_left"`
	BBoxRight  *int `json:"bbox_right"`
	BBoxTop    *int `json:"bbox_top"`
	Origin     *int `json:"origin"`
	Width      *int `json:"width"`
	Height     *int `json:"height"`
	Sequence   *struct {
		XOrigin *int `json:"xorigin"`
		YOrigin *int `json:"yorigin"`
	} `json:"sequence"`
}

// complete reports whether every preserved field was present.
func (o *spriteOverrides) complete() bool {
	return o.BBoxMode != nil && o.BBoxBottom != nil && o.BBoxLeft != nil &&
		o.BBoxRight != nil && o.BBoxTop != nil && o.Origin != nil &&
		o.Width != nil && o.Height != nil && o.Sequence != nil &&
		o.Sequence.XOrigin != nil && o.Sequence.YOrigin != nil
}

// apply copies the preserved settings onto s.
func (o *spriteOverrides) apply(s *Sprite) {
	s.BBoxMode = *o.BBoxMode
	s.BBoxBottom = *o.BBoxBottom
	s.BBoxLeft = *o.BBoxLeft
	s.BBoxRight = *o.BBoxRight
	s.BBoxTop = *o.BBoxTop
	s.Origin = *o.Origin
	s.Sequence.XOrigin = *o.Sequence.XOrigin
	s.Sequence.YOrigin = *o.Sequence.YOrigin
}

// NewSprite builds the resource model for a sprite of frameGUIDs frames,
// all drawn on the single layer layerGUID. The origin is top-left and the
// collision mask is the automatic rectangle box.
func NewSprite(name string, width, height int, frameGUIDs []string, layerGUID string, parent ResourceRef, box sheet.BBox) *Sprite {
	self := ResourceRef{Name: name, Path: spritePath(name)}

	frames := make([]Frame, len(frameGUIDs))
	keyframes := make([]FrameKeyframe, len(frameGUIDs))
	for i, guid := range frameGUIDs {
		frames[i] = Frame{
			Name:            guid,
			ResourceType:    "GMSpriteFrame",
			ResourceVersion: resourceVersion,
		}
		keyframes[i] = FrameKeyframe{
			Channels: map[string]FrameKeyChannel{
				"0": {
					ID:              ResourceRef{Name: guid, Path: self.Path},
					ResourceType:    "SpriteFrameKeyframe",
					ResourceVersion: resourceVersion,
				},
			},
			ID:              newGUID(),
			Key:             float64(i),
			Length:          1,
			ResourceType:    "Keyframe<SpriteFrameKeyframe>",
			ResourceVersion: resourceVersion,
		}
	}

	return &Sprite{
		NameField:     name,
		BBoxMode:      0,
		BBoxBottom:    box.Bottom,
		BBoxLeft:      box.Left,
		BBoxRight:     box.Right,
		BBoxTop:       box.Top,
		CollisionKind: 1,
		Frames:        frames,
		Height:        height,
		Layers: []ImageLayer{{
			BlendMode:       0,
			DisplayName:     "default",
			Name:            layerGUID,
			Opacity:         100,
			ResourceType:    "GMImageLayer",
			ResourceVersion: resourceVersion,
			Visible:         true,
		}},
		Name:            name,
		Parent:          parent,
		ResourceType:    "GMSprite",
		ResourceVersion: resourceVersion,
		Sequence: Sequence{
			NameField:            name,
			BackdropHeight:       768,
			BackdropImageOpacity: 0.5,
			BackdropWidth:        1366,
			Events: MessageEventStore{
				Keyframes:       []interface{}{},
				ResourceType:    "KeyframeStore<MessageEventKeyframe>",
				ResourceVersion: resourceVersion,
			},
			EventToFunction: map[string]interface{}{},
			Length:          float64(len(frameGUIDs)),
			Moments: MomentsEventStore{
				Keyframes:       []interface{}{},
				ResourceType:    "KeyframeStore<MomentsEventKeyframe>",
				ResourceVersion: resourceVersion,
			},
			Name:              name,
			Playback:          1,
			PlaybackSpeed:     30,
			PlaybackSpeedType: 0,
			ResourceType:      "GMSequence",
			ResourceVersion:   resourceVersion,
			SeqHeight:         float64(height),
			SeqWidth:          float64(width),
			ShowBackdrop:      true,
			TimeUnits:         1,
			Tracks: []FramesTrack{{
				Events:              []interface{}{},
				InheritsTrackColour: true,
				IsCreationTrack:     false,
				Keyframes: FrameKeyframeStore{
					Keyframes:       keyframes,
					ResourceType:    "KeyframeStore<SpriteFrameKeyframe>",
					ResourceVersion: resourceVersion,
				},
				Modifiers:       []interface{}{},
				Name:            "frames",
				ResourceType:    "GMSpriteFramesTrack",
				ResourceVersion: resourceVersion,
				Tracks:          []interface{}{},
			}},
			Volume: 1,
		},
		SWFPrecision:   2.525,
		TextureGroupID: ResourceRef{Name: "Default", Path: "texturegroups/Default"},
		Width:          width,
	}
}

func spritePath(name string) string {
	return "sprites/" + name + "/" + name + ".yy"
}
