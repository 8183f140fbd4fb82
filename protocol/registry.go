package protocol

// The decode registries. Commands without a typed decoder here come out
// of Unmarshal as *Unknown.

var toServerCommands = map[uint16]func() Command{
	0x00: func() Command { return &ToServerNull{} },
	0x02: func() Command { return &ToServerInit{} },
	0x11: func() Command { return &ToServerInit2{} },
	0x17: func() Command { return &ToServerModchannelJoin{} },
	0x18: func() Command { return &ToServerModchannelLeave{} },
	0x19: func() Command { return &ToServerModchannelMsg{} },
	0x23: func() Command { return &ToServerPlayerPos{} },
	0x24: func() Command { return &ToServerGotBlocks{} },
	0x25: func() Command { return &ToServerDeletedBlocks{} },
	0x31: func() Command { return &ToServerInventoryAction{} },
	0x32: func() Command { return &ToServerChatMessage{} },
	0x35: func() Command { return &ToServerDamage{} },
	0x37: func() Command { return &ToServerPlayerItem{} },
	0x38: func() Command { return &ToServerRespawn{} },
	0x39: func() Command { return &ToServerInteract{} },
	0x3a: func() Command { return &ToServerRemovedSounds{} },
	0x3b: func() Command { return &ToServerNodemetaFields{} },
	0x3c: func() Command { return &ToServerInventoryFields{} },
	0x40: func() Command { return &ToServerRequestMedia{} },
	0x41: func() Command { return &ToServerHaveMedia{} },
	0x43: func() Command { return &ToServerClientReady{} },
	0x50: func() Command { return &ToServerFirstSRP{} },
	0x51: func() Command { return &ToServerSRPBytesA{} },
	0x52: func() Command { return &ToServerSRPBytesM{} },
	0x53: func() Command { return &ToServerUpdateClientInfo{} },
}

var toClientCommands = map[uint16]func() Command{
	0x02: func() Command { return &ToClientHello{} },
	0x03: func() Command { return &ToClientAuthAccept{} },
	0x04: func() Command { return &ToClientAcceptSudoMode{} },
	0x05: func() Command { return &ToClientDenySudoMode{} },
	0x0a: func() Command { return &ToClientAccessDenied{} },
	0x20: func() Command { return &ToClientBlockData{} },
	0x21: func() Command { return &ToClientAddNode{} },
	0x22: func() Command { return &ToClientRemoveNode{} },
	0x27: func() Command { return &ToClientInventory{} },
	0x29: func() Command { return &ToClientTimeOfDay{} },
	0x2a: func() Command { return &ToClientCSMRestrictionFlags{} },
	0x2b: func() Command { return &ToClientPlayerSpeed{} },
	0x2c: func() Command { return &ToClientMediaPush{} },
	0x2f: func() Command { return &ToClientChatMessage{} },
	0x31: func() Command { return &ToClientActiveObjectRemoveAdd{} },
	0x32: func() Command { return &ToClientActiveObjectMessages{} },
	0x33: func() Command { return &ToClientHP{} },
	0x34: func() Command { return &ToClientMovePlayer{} },
	0x35: func() Command { return &ToClientAccessDeniedLegacy{} },
	0x36: func() Command { return &ToClientFOV{} },
	0x37: func() Command { return &ToClientDeathscreen{} },
	0x38: func() Command { return &ToClientMedia{} },
	0x3a: func() Command { return &ToClientNodeDef{} },
	0x3c: func() Command { return &ToClientAnnounceMedia{} },
	0x3d: func() Command { return &ToClientItemDef{} },
	0x3f: func() Command { return &ToClientPlaySound{} },
	0x40: func() Command { return &ToClientStopSound{} },
	0x41: func() Command { return &ToClientPrivileges{} },
	0x42: func() Command { return &ToClientInventoryFormspec{} },
	0x43: func() Command { return &ToClientDetachedInventory{} },
	0x44: func() Command { return &ToClientShowFormspec{} },
	0x45: func() Command { return &ToClientMovement{} },
	0x46: func() Command { return &ToClientSpawnParticle{} },
	0x47: func() Command { return &ToClientAddParticleSpawner{} },
	0x49: func() Command { return &ToClientHudAdd{} },
	0x4a: func() Command { return &ToClientHudRemove{} },
	0x4b: func() Command { return &ToClientHudChange{} },
	0x4c: func() Command { return &ToClientHudSetFlags{} },
	0x4d: func() Command { return &ToClientHudSetParam{} },
	0x4e: func() Command { return &ToClientBreath{} },
	0x4f: func() Command { return &ToClientSetSky{} },
	0x50: func() Command { return &ToClientOverrideDayNightRatio{} },
	0x51: func() Command { return &ToClientLocalPlayerAnimations{} },
	0x52: func() Command { return &ToClientEyeOffset{} },
	0x53: func() Command { return &ToClientDeleteParticleSpawner{} },
	0x54: func() Command { return &ToClientCloudParams{} },
	0x55: func() Command { return &ToClientFadeSound{} },
	0x56: func() Command { return &ToClientUpdatePlayerList{} },
	0x57: func() Command { return &ToClientModchannelMsg{} },
	0x58: func() Command { return &ToClientModchannelSignal{} },
	0x59: func() Command { return &ToClientNodemetaChanged{} },
	0x5a: func() Command { return &ToClientSetSun{} },
	0x5b: func() Command { return &ToClientSetMoon{} },
	0x5c: func() Command { return &ToClientSetStars{} },
	0x60: func() Command { return &ToClientSRPBytesSB{} },
	0x61: func() Command { return &ToClientFormspecPrepend{} },
	0x62: func() Command { return &ToClientMinimapModes{} },
	0x63: func() Command { return &ToClientSetLighting{} },
}

func lookupCommand(dir Direction, id uint16) func() Command {
	switch dir {
	case ToServer:
		return toServerCommands[id]
	case ToClient:
		return toClientCommands[id]
	default:
		return nil
	}
}
