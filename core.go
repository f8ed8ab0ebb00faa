package linekit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/linekit-go/linekit/catalog"
	"github.com/linekit-go/linekit/dto"
	"github.com/linekit-go/linekit/synth"
	"github.com/linekit-go/linekit/transport"
)

// Endpoint names as declared in the catalog. The parity tests assert
// that both facades expose exactly one method per name.
const (
	opReplyMessage                 = "ReplyMessage"
	opPushMessage                  = "PushMessage"
	opMulticast                    = "Multicast"
	opBroadcast                    = "Broadcast"
	opGetMessageDeliveryBroadcast  = "GetMessageDeliveryBroadcast"
	opGetMessageDeliveryReply      = "GetMessageDeliveryReply"
	opGetMessageDeliveryPush       = "GetMessageDeliveryPush"
	opGetMessageDeliveryMulticast  = "GetMessageDeliveryMulticast"
	opGetProfile                   = "GetProfile"
	opGetGroupMemberProfile        = "GetGroupMemberProfile"
	opGetRoomMemberProfile         = "GetRoomMemberProfile"
	opGetGroupMemberIDs            = "GetGroupMemberIDs"
	opGetRoomMemberIDs             = "GetRoomMemberIDs"
	opGetMessageContent            = "GetMessageContent"
	opLeaveGroup                   = "LeaveGroup"
	opLeaveRoom                    = "LeaveRoom"
	opGetRichMenu                  = "GetRichMenu"
	opCreateRichMenu               = "CreateRichMenu"
	opDeleteRichMenu               = "DeleteRichMenu"
	opGetRichMenuList              = "GetRichMenuList"
	opGetRichMenuIDOfUser          = "GetRichMenuIDOfUser"
	opLinkRichMenuToUser           = "LinkRichMenuToUser"
	opLinkRichMenuToUsers          = "LinkRichMenuToUsers"
	opUnlinkRichMenuFromUser       = "UnlinkRichMenuFromUser"
	opUnlinkRichMenuFromUsers      = "UnlinkRichMenuFromUsers"
	opGetRichMenuImage             = "GetRichMenuImage"
	opSetRichMenuImage             = "SetRichMenuImage"
	opSetDefaultRichMenu           = "SetDefaultRichMenu"
	opGetDefaultRichMenu           = "GetDefaultRichMenu"
	opCancelDefaultRichMenu        = "CancelDefaultRichMenu"
	opGetMessageQuota              = "GetMessageQuota"
	opGetMessageQuotaConsumption   = "GetMessageQuotaConsumption"
	opIssueLinkToken               = "IssueLinkToken"
	opIssueChannelToken            = "IssueChannelToken"
	opRevokeChannelToken           = "RevokeChannelToken"
)

// core is the shared machinery behind both facades: the synthesized
// method table, the transport, and the per-endpoint call builders. Each
// facade method is a thin shell over one core function, so argument
// validation, path construction, and error classification are the same
// code on both surfaces.
type core struct {
	cat     *catalog.Catalog
	deps    synth.Deps
	table   atomic.Pointer[synth.Table]
	store   *synth.Store
	logger  *slog.Logger
	timeout time.Duration
}

func newCore(channelToken string, optFns ...Option) (*core, error) {
	if channelToken == "" {
		return nil, errors.New("channel access token must not be empty")
	}

	opts := options{
		endpoint:     defaultEndpoint,
		dataEndpoint: defaultDataEndpoint,
	}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	if opts.logger == nil {
		opts.logger = slog.Default()
	}
	if opts.codec == nil {
		opts.codec = dto.JSONCodec{}
	}
	if opts.userAgent == "" {
		opts.userAgent = "linekit/" + Version
	}

	api, err := url.Parse(opts.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	data, err := url.Parse(opts.dataEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing data endpoint: %w", err)
	}

	tOpts := []transport.Option{
		transport.WithLogger(opts.logger),
		transport.WithUserAgent(opts.userAgent),
	}
	if opts.httpClient != nil {
		tOpts = append(tOpts, transport.WithClient(opts.httpClient))
	}
	if opts.rt != nil {
		tOpts = append(tOpts, transport.WithTransport(opts.rt))
	}
	if opts.tracer != nil {
		tOpts = append(tOpts, transport.WithTracer(opts.tracer))
	}
	if opts.throttle != nil {
		tOpts = append(tOpts, transport.WithThrottle(opts.throttle.rps, opts.throttle.burst))
	}
	tc, err := transport.Build(tOpts...)
	if err != nil {
		return nil, fmt.Errorf("building transport: %w", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		return nil, err
	}

	co := &core{
		cat: cat,
		deps: synth.Deps{
			Transport: tc,
			Codec:     opts.codec,
			API:       api,
			Data:      data,
			Header:    map[string]string{"Authorization": "Bearer " + channelToken},
		},
		logger:  opts.logger,
		timeout: defaultTimeout,
	}
	if opts.timeout != nil {
		co.timeout = *opts.timeout
	}
	if opts.cacheDir != "" {
		co.store = synth.NewStore(opts.cacheDir)
	}

	if err := co.install(); err != nil {
		return nil, err
	}

	return co, nil
}

// install puts a synthesized method table in place before any call can
// be dispatched. A fresh cached snapshot is rebound directly; a stale,
// missing, or rejected snapshot triggers full synthesis from the
// catalog, persisted best-effort afterwards. The table is published with
// a single atomic swap, never patched in place.
func (co *core) install() error {
	if co.store != nil {
		snap, err := co.store.Load()
		switch {
		case err != nil:
			co.logger.Debug("no usable surface snapshot", "error", err)
		case synth.NeedsRegeneration(snap.Manifest, co.cat.Version()):
			co.logger.Info("surface snapshot is stale",
				"generated", snap.Manifest.GeneratedVersion, "catalog", co.cat.Version())
		default:
			table, err := synth.FromSnapshot(snap)
			if err == nil {
				co.table.Store(table)
				return nil
			}
			co.logger.Warn("rejecting cached surface snapshot", "error", err)
		}
	}

	table, err := synth.Synthesize(co.cat)
	if err != nil {
		return err
	}
	co.table.Store(table)

	if co.store != nil {
		if err := co.store.Save(synth.SnapshotOf(table)); err != nil {
			// Not fatal: the in-memory table is complete; the next
			// startup simply synthesizes again.
			co.logger.Warn("persisting surface snapshot", "error", err)
		}
	}

	return nil
}

// invoke runs one synthesized operation. The default timeout applies to
// non-streaming calls without their own deadline; streaming calls are
// bounded only by the caller's context so long downloads are not cut
// off mid-body.
func (co *core) invoke(ctx context.Context, name string, args synth.Args) (synth.Result, error) {
	op, ok := co.table.Load().Lookup(name)
	if !ok {
		return synth.Result{}, fmt.Errorf("no operation %q in synthesized surface", name)
	}

	if co.timeout > 0 && op.Descriptor().Response != catalog.ResponseStream {
		if _, has := ctx.Deadline(); !has {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, co.timeout)
			defer cancel()
		}
	}

	return op.Invoke(ctx, co.deps, args)
}

func (co *core) exec(ctx context.Context, name string, args synth.Args) error {
	_, err := co.invoke(ctx, name, args)
	return err
}

func (co *core) stream(ctx context.Context, name string, args synth.Args) (*transport.Stream, error) {
	res, err := co.invoke(ctx, name, args)
	if err != nil {
		return nil, err
	}
	return res.Stream, nil
}

func invokeAs[T any](co *core, ctx context.Context, name string, args synth.Args) (*T, error) {
	res, err := co.invoke(ctx, name, args)
	if err != nil {
		return nil, err
	}
	v, ok := res.Value.(*T)
	if !ok {
		return nil, fmt.Errorf("operation %q produced %T", name, res.Value)
	}
	return v, nil
}

// Per-endpoint call builders shared verbatim by both facades.

func (co *core) replyMessage(ctx context.Context, replyToken string, messages []dto.Message) error {
	return co.exec(ctx, opReplyMessage, synth.Args{
		Body: &dto.ReplyRequest{ReplyToken: replyToken, Messages: messages},
	})
}

func (co *core) pushMessage(ctx context.Context, to string, messages []dto.Message) error {
	return co.exec(ctx, opPushMessage, synth.Args{
		Body: &dto.PushRequest{To: to, Messages: messages},
	})
}

func (co *core) multicast(ctx context.Context, to []string, messages []dto.Message) error {
	return co.exec(ctx, opMulticast, synth.Args{
		Body: &dto.MulticastRequest{To: to, Messages: messages},
	})
}

func (co *core) broadcast(ctx context.Context, messages []dto.Message) error {
	return co.exec(ctx, opBroadcast, synth.Args{
		Body: &dto.BroadcastRequest{Messages: messages},
	})
}

func (co *core) messageDelivery(ctx context.Context, name, date string) (*dto.MessagesDelivery, error) {
	return invokeAs[dto.MessagesDelivery](co, ctx, name, synth.Args{
		Query: &dto.DeliveryQuery{Date: date},
	})
}

func (co *core) getProfile(ctx context.Context, userID string) (*dto.Profile, error) {
	return invokeAs[dto.Profile](co, ctx, opGetProfile, synth.Args{Path: []string{userID}})
}

func (co *core) getGroupMemberProfile(ctx context.Context, groupID, userID string) (*dto.Profile, error) {
	return invokeAs[dto.Profile](co, ctx, opGetGroupMemberProfile, synth.Args{Path: []string{groupID, userID}})
}

func (co *core) getRoomMemberProfile(ctx context.Context, roomID, userID string) (*dto.Profile, error) {
	return invokeAs[dto.Profile](co, ctx, opGetRoomMemberProfile, synth.Args{Path: []string{roomID, userID}})
}

func (co *core) getGroupMemberIDs(ctx context.Context, groupID, start string) (*dto.MemberIDs, error) {
	return invokeAs[dto.MemberIDs](co, ctx, opGetGroupMemberIDs, synth.Args{
		Path:  []string{groupID},
		Query: &dto.MemberIDsQuery{Start: start},
	})
}

func (co *core) getRoomMemberIDs(ctx context.Context, roomID, start string) (*dto.MemberIDs, error) {
	return invokeAs[dto.MemberIDs](co, ctx, opGetRoomMemberIDs, synth.Args{
		Path:  []string{roomID},
		Query: &dto.MemberIDsQuery{Start: start},
	})
}

func (co *core) getMessageContent(ctx context.Context, messageID string) (*transport.Stream, error) {
	return co.stream(ctx, opGetMessageContent, synth.Args{Path: []string{messageID}})
}

func (co *core) leaveGroup(ctx context.Context, groupID string) error {
	return co.exec(ctx, opLeaveGroup, synth.Args{Path: []string{groupID}})
}

func (co *core) leaveRoom(ctx context.Context, roomID string) error {
	return co.exec(ctx, opLeaveRoom, synth.Args{Path: []string{roomID}})
}

func (co *core) getRichMenu(ctx context.Context, richMenuID string) (*dto.RichMenuResponse, error) {
	return invokeAs[dto.RichMenuResponse](co, ctx, opGetRichMenu, synth.Args{Path: []string{richMenuID}})
}

func (co *core) createRichMenu(ctx context.Context, menu dto.RichMenu) (string, error) {
	res, err := invokeAs[dto.RichMenuID](co, ctx, opCreateRichMenu, synth.Args{Body: &menu})
	if err != nil {
		return "", err
	}
	return res.RichMenuID, nil
}

func (co *core) deleteRichMenu(ctx context.Context, richMenuID string) error {
	return co.exec(ctx, opDeleteRichMenu, synth.Args{Path: []string{richMenuID}})
}

func (co *core) getRichMenuList(ctx context.Context) ([]dto.RichMenuResponse, error) {
	res, err := invokeAs[dto.RichMenuList](co, ctx, opGetRichMenuList, synth.Args{})
	if err != nil {
		return nil, err
	}
	return res.RichMenus, nil
}

func (co *core) getRichMenuIDOfUser(ctx context.Context, userID string) (string, error) {
	res, err := invokeAs[dto.RichMenuID](co, ctx, opGetRichMenuIDOfUser, synth.Args{Path: []string{userID}})
	if err != nil {
		return "", err
	}
	return res.RichMenuID, nil
}

func (co *core) linkRichMenuToUser(ctx context.Context, userID, richMenuID string) error {
	return co.exec(ctx, opLinkRichMenuToUser, synth.Args{Path: []string{userID, richMenuID}})
}

func (co *core) linkRichMenuToUsers(ctx context.Context, userIDs []string, richMenuID string) error {
	return co.exec(ctx, opLinkRichMenuToUsers, synth.Args{
		Body: &dto.BulkLinkRequest{RichMenuID: richMenuID, UserIDs: userIDs},
	})
}

func (co *core) unlinkRichMenuFromUser(ctx context.Context, userID string) error {
	return co.exec(ctx, opUnlinkRichMenuFromUser, synth.Args{Path: []string{userID}})
}

func (co *core) unlinkRichMenuFromUsers(ctx context.Context, userIDs []string) error {
	return co.exec(ctx, opUnlinkRichMenuFromUsers, synth.Args{
		Body: &dto.BulkUnlinkRequest{UserIDs: userIDs},
	})
}

func (co *core) getRichMenuImage(ctx context.Context, richMenuID string) (*transport.Stream, error) {
	return co.stream(ctx, opGetRichMenuImage, synth.Args{Path: []string{richMenuID}})
}

func (co *core) setRichMenuImage(ctx context.Context, richMenuID, contentType string, content []byte) error {
	return co.exec(ctx, opSetRichMenuImage, synth.Args{
		Path:        []string{richMenuID},
		Raw:         content,
		ContentType: contentType,
	})
}

func (co *core) setDefaultRichMenu(ctx context.Context, richMenuID string) error {
	return co.exec(ctx, opSetDefaultRichMenu, synth.Args{Path: []string{richMenuID}})
}

func (co *core) getDefaultRichMenu(ctx context.Context) (string, error) {
	res, err := invokeAs[dto.RichMenuID](co, ctx, opGetDefaultRichMenu, synth.Args{})
	if err != nil {
		return "", err
	}
	return res.RichMenuID, nil
}

func (co *core) cancelDefaultRichMenu(ctx context.Context) error {
	return co.exec(ctx, opCancelDefaultRichMenu, synth.Args{})
}

func (co *core) getMessageQuota(ctx context.Context) (*dto.MessageQuota, error) {
	return invokeAs[dto.MessageQuota](co, ctx, opGetMessageQuota, synth.Args{})
}

func (co *core) getMessageQuotaConsumption(ctx context.Context) (*dto.QuotaConsumption, error) {
	return invokeAs[dto.QuotaConsumption](co, ctx, opGetMessageQuotaConsumption, synth.Args{})
}

func (co *core) issueLinkToken(ctx context.Context, userID string) (*dto.LinkToken, error) {
	return invokeAs[dto.LinkToken](co, ctx, opIssueLinkToken, synth.Args{Path: []string{userID}})
}

func (co *core) issueChannelToken(ctx context.Context, clientID, clientSecret string) (*dto.ChannelToken, error) {
	return invokeAs[dto.ChannelToken](co, ctx, opIssueChannelToken, synth.Args{
		Body: &dto.ChannelTokenRequest{
			GrantType:    "client_credentials",
			ClientID:     clientID,
			ClientSecret: clientSecret,
		},
	})
}

func (co *core) revokeChannelToken(ctx context.Context, accessToken string) error {
	return co.exec(ctx, opRevokeChannelToken, synth.Args{
		Body: &dto.ChannelTokenRevokeRequest{AccessToken: accessToken},
	})
}
